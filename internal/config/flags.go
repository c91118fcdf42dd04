// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a datacenter address in format [host]:[port]
//	-d session database path
//	-c/-config json file path with configs
//	-api-id application API id
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-ping-interval keepalive tick period
//	-idle-refresh idle state refresh interval
func ParseFlags() *StructuredConfig {
	var dcAddress NetAddress
	var sessionDBPath string
	var jsonConfigPath string
	var apiID int
	var requestTimeout time.Duration
	var pingInterval time.Duration
	var idleRefresh time.Duration

	flag.Var(&dcAddress, "a", "Datacenter address host:port")
	flag.StringVar(&sessionDBPath, "d", "", "Session database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&apiID, "api-id", 0, "Application API id")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&pingInterval, "ping-interval", 0, "Keepalive tick period (e.g., 9s)")
	flag.DurationVar(&idleRefresh, "idle-refresh", 0, "Idle state refresh interval (e.g., 10m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			APIID: apiID,
		},
		Transport: Transport{
			Address:        dcAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Session: Session{
			DBPath: sessionDBPath,
		},
		Keepalive: Keepalive{
			PingInterval: pingInterval,
			IdleRefresh:  idleRefresh,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
