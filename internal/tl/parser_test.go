// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, schema string) *Definition {
	t.Helper()
	defs, err := Parse(schema)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	return defs[0]
}

func TestParse_ExplicitIDPreserved(t *testing.T) {
	tests := []struct {
		line string
		want uint32
	}{
		{line: "foo#1 = Bar;", want: 0x1},
		{line: "ping#7abe77ec ping_id:long = Pong;", want: 0x7abe77ec},
		{line: "updates.state#a56c2a3e pts:int qts:int date:int seq:int unread_count:int = updates.State;", want: 0xa56c2a3e},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOne(t, tt.line).ID)
		})
	}
}

func TestParse_DerivedID(t *testing.T) {
	// A definition without an id hashes its canonical representation:
	// name, field names in order, " = ", result.
	def := parseOne(t, "foo field:int = Bar;")
	assert.Equal(t, uint32(0x68ead2f5), def.ID) // crc32("foo field = Bar")

	def = parseOne(t, "foo = Bar;")
	assert.Equal(t, uint32(0xf299a7fc), def.ID) // crc32("foo = Bar")
}

func TestParse_DerivedID_TrueFlagsLeaveNoTrace(t *testing.T) {
	// Presence-only flags are erased from the representation, so these
	// two derive the same id base string "baz x = Bar".
	def := parseOne(t, "baz flag:flags.0?true x:int = Bar;")
	assert.Equal(t, uint32(0x51ba816d), def.ID) // crc32("baz x = Bar")
}

func TestParse_FunctionsToggle(t *testing.T) {
	schema := `
peer#9db1bc6d user_id:long = Peer;
---functions---
updates.get_state#edd4882a = updates.State;
---types---
chat#6592a1a7 id:long = Chat;
`
	defs, err := Parse(schema)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.False(t, defs[0].IsFunction)
	assert.True(t, defs[1].IsFunction)
	assert.False(t, defs[2].IsFunction)

	assert.Equal(t, "updates", defs[1].Namespace)
	assert.Equal(t, "getState", defs[1].Name, "snake_case names are camel-cased")
	assert.Equal(t, "updates.getState", defs[1].FullName())
}

func TestParse_PolymorphicUnionByResult(t *testing.T) {
	defs, err := Parse("foo#1 = Bar;\nbaz flag:flags.0?true x:int = Bar;")
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "Bar", defs[0].Result)
	assert.Equal(t, "Bar", defs[1].Result)
	assert.Equal(t, defs[0].SubclassOfID, defs[1].SubclassOfID,
		"variants of one result type share a subclass id")
}

func TestParse_FlagArgs(t *testing.T) {
	def := parseOne(t, "msg#2 flags:# silent:flags.1?true title:flags.3?string views:flags2.0?int = Msg;")

	flagsArg := def.Arg("flags")
	require.NotNil(t, flagsArg)
	assert.True(t, flagsArg.FlagIndicator)

	silent := def.Arg("silent")
	require.NotNil(t, silent)
	assert.True(t, silent.IsFlag)
	assert.Equal(t, "flags", silent.FlagName)
	assert.Equal(t, 1, silent.FlagIndex)
	assert.Equal(t, "true", silent.Type)

	title := def.Arg("title")
	require.NotNil(t, title)
	assert.True(t, title.IsFlag)
	assert.Equal(t, 3, title.FlagIndex)
	assert.Equal(t, "string", title.Type)

	views := def.Arg("views")
	require.NotNil(t, views)
	assert.Equal(t, "flags2", views.FlagName, "numbered bitmask fields keep their suffix")
}

func TestParse_VectorArgs(t *testing.T) {
	def := parseOne(t, "box#3 boxed:Vector<int> bare:vector<long> = Box;")

	boxed := def.Arg("boxed")
	require.NotNil(t, boxed)
	assert.True(t, boxed.IsVector)
	assert.True(t, boxed.UseVectorID)
	assert.Equal(t, "int", boxed.Type)

	bare := def.Arg("bare")
	require.NotNil(t, bare)
	assert.True(t, bare.IsVector)
	assert.False(t, bare.UseVectorID, "lowercase vector omits the vector id")
	assert.Equal(t, "long", bare.Type)
}

func TestParse_BareTypesSkipConstructorID(t *testing.T) {
	def := parseOne(t, "pair#4 n:int name:string inner:storage.fileType boxed:Photo = Pair;")

	assert.True(t, def.Arg("n").SkipConstructorID)
	assert.True(t, def.Arg("name").SkipConstructorID)
	assert.True(t, def.Arg("inner").SkipConstructorID,
		"lowercase final namespace segment marks a bare type")
	assert.False(t, def.Arg("boxed").SkipConstructorID)
}

func TestParse_GenericReferenceErased(t *testing.T) {
	def := parseOne(t, "invokeWithLayer#da9b0d0d layer:int query:!X = X;")
	assert.Equal(t, "X", def.Arg("query").Type)
}

func TestParse_SelfIsRenamed(t *testing.T) {
	def := parseOne(t, "user#5 self:flags.10?true id:long = User;")
	assert.Nil(t, def.Arg("self"))
	require.NotNil(t, def.Arg("is_self"))
	assert.Equal(t, []string{"is_self", "id"}, def.ArgNames)
}

func TestParse_MalformedLineFailsFast(t *testing.T) {
	_, err := Parse("this is not a definition")

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Error(), "this is not a definition")
}

func TestParse_VectorPseudoLineIgnored(t *testing.T) {
	schema := `
vector#1cb5c415 {t:Type} # [ t ] = Vector t;
foo#1 = Bar;
`
	defs, err := Parse(schema)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "foo", defs[0].Name)
}

func TestParse_CommentsAndBlanksSkipped(t *testing.T) {
	schema := `
// leading comment
foo#1 = Bar; // trailing comment

`
	defs, err := Parse(schema)
	require.NoError(t, err)
	require.Len(t, defs, 1)
}

func TestParse_CoreTypesDropped(t *testing.T) {
	schema := `
boolFalse#bc799737 = Bool;
boolTrue#997275b5 = Bool;
true#3fedd339 = True;
null#56730bcc = Null;
foo#1 = Bar;
`
	defs, err := Parse(schema)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "foo", defs[0].Name)
}

func TestParse_AuthKeyStringsRetypedToBytes(t *testing.T) {
	def := parseOne(t, "resPQ#05162463 nonce:int128 server_nonce:int128 pq:string server_public_key_fingerprints:Vector<long> = ResPQ;")

	assert.Equal(t, "bytes", def.Arg("pq").Type,
		"auth-key exchange strings are opaque bytes")
	assert.Equal(t, "int128", def.Arg("nonce").Type)
}
