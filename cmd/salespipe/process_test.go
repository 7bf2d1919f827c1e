package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidshard/salespipe/pkg/config"
)

func TestPerInput(t *testing.T) {
	tests := []struct {
		dest, input, want string
	}{
		{"pipe:data/enriched.txt", "in/jan.txt", "pipe:data/enriched_jan.txt"},
		{"jsonfile:out.json", "feb.csv", "jsonfile:out_feb.json"},
		{"xlsx:output/report.xlsx", "/tmp/q1.txt", "xlsx:output/report_q1.xlsx"},
		{"output/report", "mar.txt", "output/report_mar"},
		{"es8:http://localhost:9200", "jan.txt", "es8:http://localhost:9200"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, perInput(tt.dest, tt.input), tt.dest)
	}
}

func TestOverride(t *testing.T) {
	cfg := config.Default()
	p := &processCmd{Region: "North", MinAmount: "1,000", Top: 3, Out: "jsonfile:x.json"}
	p.override(cfg)

	assert.Equal(t, "North", cfg.Filter.Region)
	assert.Equal(t, "1,000", cfg.Filter.MinAmount)
	assert.Equal(t, 3, cfg.Analytics.TopN)
	assert.Equal(t, 10, cfg.Analytics.LowThreshold)
	assert.Equal(t, "jsonfile:x.json", cfg.Output.Store)
	assert.Equal(t, config.Default().Output.Report, cfg.Output.Report)
	assert.NoError(t, cfg.Validate())
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Filter.MinAmount = "1,000"
	cfg.Filter.Region = "South"

	opts, err := pipelineOptions(cfg)
	require.NoError(t, err)
	require.NotNil(t, opts.Filter.MinAmount)
	assert.Equal(t, "1000", opts.Filter.MinAmount.String())
	assert.Nil(t, opts.Filter.MaxAmount)
	assert.Equal(t, "South", opts.Filter.Region)
	assert.Equal(t, 5, opts.Analytics.TopN)

	cfg.Filter.MaxAmount = "lots"
	_, err = pipelineOptions(cfg)
	assert.Error(t, err)
}
