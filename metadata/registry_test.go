package metadata

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

type fakeEnumerator struct {
	providers map[string][]EventMetadata
	failing   map[string]error
	calls     int
}

func (f *fakeEnumerator) Providers(context.Context) ([]string, error) {
	f.calls++
	names := make([]string, 0, len(f.providers)+len(f.failing))
	for p := range f.providers {
		names = append(names, p)
	}
	for p := range f.failing {
		names = append(names, p)
	}
	return names, nil
}

func (f *fakeEnumerator) Events(_ context.Context, provider string) ([]EventMetadata, error) {
	if err, ok := f.failing[provider]; ok {
		return nil, err
	}
	return f.providers[provider], nil
}

const securityTemplate = `<template xmlns="http://schemas.microsoft.com/win/2004/08/events">
  <data name="SubjectUserSid" inType="win:SID" outType="xs:string"/>
  <DATA NAME="SubjectUserName" inType="win:UnicodeString" outType="xs:string"/>
  <data name="" inType="win:UInt32"/>
  <data name="LogonId" inType="win:HexInt64" outType="win:HexInt64"/>
</template>`

func TestParseTemplate(t *testing.T) {
	names, err := ParseTemplate(securityTemplate)
	require.NoError(t, err)
	assert.Equal(t, []string{"SubjectUserSid", "SubjectUserName", "LogonId"}, names)

	names, err = ParseTemplate("")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = ParseTemplate(`<data name="Broken`)
	assert.ErrorIs(t, err, ErrUnterminatedName)
}

func TestParseKey(t *testing.T) {
	k := Key{Provider: "Microsoft-Windows-Security-Auditing", EventID: 4624, Version: 2}
	assert.Equal(t, "Microsoft-Windows-Security-Auditing-4624-2", k.String())

	back, err := ParseKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, back)

	for _, bad := range []string{"", "nodash", "-1-2", "p-x-1", "p-1-y", "p-1-"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestPopulateFromHost(t *testing.T) {
	enum := &fakeEnumerator{
		providers: map[string][]EventMetadata{
			"Microsoft-Windows-Security-Auditing": {
				{EventID: 4624, Version: 2, Template: securityTemplate},
				{EventID: 4625, Version: 0, Template: `<data name="Unterminated`},
				{EventID: 4626, Version: 0, Err: errors.New("access denied")},
				{EventID: 4627, Version: 0, Template: ""},
			},
		},
		failing: map[string]error{"Broken-Provider": errors.New("not found")},
	}

	r := NewRegistry(zap.NewNop())
	require.NoError(t, r.PopulateFromHost(context.Background(), enum))
	require.NoError(t, r.PopulateFromHost(context.Background(), enum))
	assert.Equal(t, 1, enum.calls)

	k := Key{Provider: "Microsoft-Windows-Security-Auditing", EventID: 4624, Version: 2}
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "SubjectUserName", r.FieldName(k, 1))
	assert.Equal(t, "field3", r.FieldName(k, 3))
	assert.Equal(t, "field0", r.FieldName(Key{Provider: "other"}, 0))

	_, ok := r.Resolve(Key{Provider: "Microsoft-Windows-Security-Auditing", EventID: 4625}, 0)
	assert.False(t, ok)
}

func TestImportIsAdditive(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	host := Key{Provider: "Host", EventID: 1, Version: 0}
	shared := Key{Provider: "Shared", EventID: 7, Version: 1}
	r.Set(host, []string{"a", "b"})
	r.Set(shared, []string{"x", "y", "z"})

	err := r.ImportFrom(strings.NewReader(`{"Shared-7-1": ["X"], "Cache-Only-3-0": ["c0", "c1"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, r.Names(host))
	assert.Equal(t, []string{"X", "y", "z"}, r.Names(shared))
	assert.Equal(t, []string{"c0", "c1"}, r.Names(Key{Provider: "Cache-Only", EventID: 3}))

	require.NoError(t, r.ImportFrom(strings.NewReader(`{"Host-1-0": ["a", "b", "c"]}`)))
	assert.Equal(t, []string{"a", "b", "c"}, r.Names(host))
}

func TestImportMalformed(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Set(Key{Provider: "Host", EventID: 1}, []string{"a"})

	for _, doc := range []string{
		`not json`,
		`{"Host-1-0": [1, 2]}`,
		`{"no-version": ["a"]}`,
		`["a"]`,
		`{"Host-01-0": ["b"], "Host-1-0": ["c"]}`,
		`{"Other-2-00": ["b"], "Other-2-0": ["c"]}`,
	} {
		err := r.ImportFrom(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrMalformedCache, doc)
	}
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"a"}, r.Names(Key{Provider: "Host", EventID: 1}))
}

func TestExportFile(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Set(Key{Provider: "B", EventID: 2, Version: 0}, []string{"two"})
	r.Set(Key{Provider: "A", EventID: 1, Version: 0}, []string{"one", "uno"})

	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, r.Export(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"A-1-0\": [\n    \"one\",\n    \"uno\"\n  ],\n  \"B-2-0\": [\n    \"two\"\n  ]\n}\n", string(content))

	back := NewRegistry(zap.NewNop())
	require.NoError(t, back.Import(path))
	assert.Equal(t, r.Keys(), back.Keys())

	assert.Error(t, back.Import(filepath.Join(t.TempDir(), "missing.json")))
}

func TestExportImportRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry(zap.NewNop())
		n := rapid.IntRange(0, 20).Draw(t, "entries")
		for i := 0; i < n; i++ {
			k := Key{
				Provider: rapid.StringMatching(`[A-Za-z][A-Za-z0-9-]{0,20}`).Draw(t, "provider"),
				EventID:  rapid.Uint32().Draw(t, "event_id"),
				Version:  rapid.Uint32Range(0, 255).Draw(t, "version"),
			}
			r.Set(k, rapid.SliceOfN(rapid.StringMatching(`[A-Za-z0-9_]{1,12}`), 1, 8).Draw(t, "names"))
		}

		var buf bytes.Buffer
		if err := r.ExportTo(&buf, rapid.Bool().Draw(t, "pretty")); err != nil {
			t.Fatal(err)
		}
		back := NewRegistry(zap.NewNop())
		if err := back.ImportFrom(&buf); err != nil {
			t.Fatal(err)
		}

		for _, k := range r.Keys() {
			want := r.Names(k)
			for i := range want {
				got, ok := back.Resolve(k, i)
				if !ok || got != want[i] {
					t.Fatalf("%s[%d]: got %q (%v), want %q", k, i, got, ok, want[i])
				}
			}
		}
	})
}
