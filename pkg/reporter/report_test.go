package reporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

func TestNewReporter(t *testing.T) {
	// Test case 1: outputFileName is empty
	report := NewReporter("")
	if report.Err != nil {
		t.Errorf("Expected error to be nil, got '%s'", report.Err)
	} else {
		if report.outputFileName != defaultFile {
			t.Errorf("Expected outputFileName to be '%s', got '%s'", defaultFile, report.outputFileName)
		}
		report.Close()
		os.Remove(report.outputFileName)
	}

	// Test case 2: outputFileName is in a missing directory
	var name = filepath.Join(t.TempDir(), "a", "b", "dspolicy.out")
	report = NewReporter(name)
	require.NoError(t, report.Err)
	assert.Equal(t, name, report.outputFileName)
	report.Close()
}

func TestReporter_WriteEvent(t *testing.T) {
	var name = filepath.Join(t.TempDir(), "dspolicy.out")
	report := NewReporter(name)
	require.NoError(t, report.Err)

	var cases = []domain.TrackEvent{
		{
			DeliveryService: "video",
			Operation:       "http",
			ClientIP:        "192.0.2.1",
			Result:          domain.ResultDSRedirect,
			ResultDetails:   domain.ResultDetailsNone,
			Answer:          []string{"http://origin.example.org/a"},
		},
		{
			DeliveryService: "video",
			Operation:       "dns",
			ClientIP:        "192.0.2.1",
			Result:          domain.ResultMiss,
			ResultDetails:   domain.ResultDetailsDSNoBypass,
		},
	}

	for _, c := range cases {
		require.NoError(t, report.WriteEvent(c))
	}
	// duplicates are dropped
	report.Track(cases[0])

	assert.Len(t, report.Events(), 2)
	require.NoError(t, report.Close())

	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"operation":"http"`)

	assert.NoError(t, LoadAndPrint(name))
}

func TestReporter_WriteEventWithoutFile(t *testing.T) {
	r := &Reporter{eventsHashMap: map[string]bool{}, outputFileName: "x"}
	assert.Error(t, r.WriteEvent(domain.TrackEvent{}))
}
