package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = "testdata/netstat-rn.txt"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithInput(t, "", args...)
	return out, err
}

// executeWithInput runs the CLI with stdin and returns stdout and stderr
func executeWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestLookup(t *testing.T) {
	out, err := execute(t, "lookup", "--file", sampleFile, "1.1.1.1", "10.8.3.4", "2001:db8:1::1")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1.1.1.1 => 192.168.1.1 via en0",
		"10.8.3.4 => 10.8.0.1 via utun3",
		"2001:db8:1::1 => a4:91:b1:12:34:56 via en0",
		"",
	}, "\n"), out)
}

func TestLookup_Stdin(t *testing.T) {
	stdin := "1.1.1.1 10.8.3.4\n\n2001:db8:1::1\n224.0.0.251\n"
	out, logs, err := executeWithInput(t, stdin, "lookup", "-v", "--file", sampleFile, "-")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1.1.1.1 => 192.168.1.1 via en0",
		"10.8.3.4 => 10.8.0.1 via utun3",
		"2001:db8:1::1 => a4:91:b1:12:34:56 via en0",
		"224.0.0.251 => 01:00:5e:00:00:fb via en0",
		"",
	}, "\n"), out)

	// one load per non-blank line, the later ones served from cache
	var counters map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(logs), "\n") {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &record), line)
		if record["msg"] == "Performance counters" {
			counters = record
		}
	}
	require.NotNil(t, counters, logs)
	assert.Equal(t, float64(1), counters["loads"])
	assert.Equal(t, float64(2), counters["cache_hits"])
	assert.Equal(t, float64(4), counters["lookups"])
}

func TestLookup_StdinInvalidAddress(t *testing.T) {
	_, _, err := executeWithInput(t, "1.1.1.1\nbogus\n", "lookup", "--file", sampleFile, "-")
	assert.ErrorContains(t, err, "bogus")
}

func TestLookup_NoRoute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Internet:\nDestination Gateway Flags Netif\n10.0.0.0/8 10.0.0.1 UGS en0\n"), 0o644))

	out, err := execute(t, "lookup", "-f", path, "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "No route to 8.8.8.8\n", out)
}

func TestLookup_JSON(t *testing.T) {
	out, err := execute(t, "lookup", "--json", "--workers", "2", "--file", sampleFile, "224.0.0.251")
	require.NoError(t, err)

	var rec lookupRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.True(t, rec.Found)
	assert.Equal(t, "224.0.0.251", rec.Destination)
	assert.Equal(t, "01:00:5e:00:00:fb", rec.Gateway)
	assert.Equal(t, "en0", rec.Interface)
}

func TestLookup_InvalidAddress(t *testing.T) {
	_, err := execute(t, "lookup", "--file", sampleFile, "not-an-ip")
	assert.Error(t, err)
}

func TestGateways(t *testing.T) {
	out, err := execute(t, "gateways", "--file", sampleFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"en0 (physical): 192.168.1.1, fe80::1",
		"utun0 (tunnel): fe80::",
		"utun3 (tunnel): 10.8.0.1",
		"",
	}, "\n"), out)

	out, err = execute(t, "gateways", "--file", sampleFile, "utun3")
	require.NoError(t, err)
	assert.Equal(t, "utun3 (tunnel): 10.8.0.1\n", out)

	_, err = execute(t, "gateways", "--file", sampleFile, "lo0")
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	out, err := execute(t, "dump", "--file", sampleFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "Internet:", lines[0])
	assert.Contains(t, lines, "Internet6:")
	assert.Contains(t, lines, "default 192.168.1.1 cGSUg en0 !")
	// 2 markers, 1 separator, 26 routes
	assert.Len(t, lines, 29)
}

func TestLoadErrors(t *testing.T) {
	_, err := execute(t, "dump", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("Internet:\n"), 0o644))
	_, err = execute(t, "dump", "--file", bad)
	assert.ErrorContains(t, err, "no headers follow")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "routetable v"+version))
}
