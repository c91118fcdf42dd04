// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		APIID         int    `json:"api_id"`
		DeviceModel   string `json:"device_model"`
		SystemVersion string `json:"system_version"`
		AppVersion    string `json:"app_version"`
		LangCode      string `json:"lang_code"`
	} `json:"app,omitempty"`

	Transport struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"transport,omitempty"`

	Session struct {
		DBPath     string `json:"db_path"`
		Passphrase string `json:"passphrase"`
	} `json:"session,omitempty"`

	Keepalive struct {
		PingInterval  Duration `json:"ping_interval"`
		ProbeTimeout  Duration `json:"probe_timeout"`
		RetryCount    int      `json:"retry_count"`
		RetryDelay    Duration `json:"retry_delay"`
		WakeThreshold Duration `json:"wake_threshold"`
		IdleRefresh   Duration `json:"idle_refresh"`
	} `json:"keepalive,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			APIID:         jsonCfg.App.APIID,
			DeviceModel:   jsonCfg.App.DeviceModel,
			SystemVersion: jsonCfg.App.SystemVersion,
			AppVersion:    jsonCfg.App.AppVersion,
			LangCode:      jsonCfg.App.LangCode,
		},
		Transport: Transport{
			Address:        jsonCfg.Transport.Address,
			RequestTimeout: time.Duration(jsonCfg.Transport.RequestTimeout),
		},
		Session: Session{
			DBPath:     jsonCfg.Session.DBPath,
			Passphrase: jsonCfg.Session.Passphrase,
		},
		Keepalive: Keepalive{
			PingInterval:  time.Duration(jsonCfg.Keepalive.PingInterval),
			ProbeTimeout:  time.Duration(jsonCfg.Keepalive.ProbeTimeout),
			RetryCount:    jsonCfg.Keepalive.RetryCount,
			RetryDelay:    time.Duration(jsonCfg.Keepalive.RetryDelay),
			WakeThreshold: time.Duration(jsonCfg.Keepalive.WakeThreshold),
			IdleRefresh:   time.Duration(jsonCfg.Keepalive.IdleRefresh),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
