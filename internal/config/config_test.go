package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMainConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "input_dir: ./bills\n")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./bills", cfg.InputDir)
	assert.Equal(t, "*.xlsx", cfg.InputPattern)
	assert.Equal(t, "./jobs", cfg.JobsDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "{job}_{timestamp}_{uuid}", cfg.OutputNameFormat)
	assert.Equal(t, []string{FormatJSON, FormatPDF, FormatXLSX}, cfg.OutputFormats)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.ShouldArchive())
	assert.True(t, cfg.ShouldContinueOnError())
	assert.False(t, cfg.Policy().GSTOnRunningBills)
}

func TestLoadMainConfigFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
output_formats: [PDF, json]
max_concurrency: 2
archive_on_success: false
continue_on_error: false
deduction_policy:
  gst_on_running_bills: true
office:
  approving_authority: Chief Engineer
  auditor_name: R. K. Jain
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{FormatPDF, FormatJSON}, cfg.OutputFormats)
	assert.True(t, cfg.WantsFormat(FormatPDF))
	assert.False(t, cfg.WantsFormat(FormatXLSX))
	assert.False(t, cfg.ShouldArchive())
	assert.False(t, cfg.ShouldContinueOnError())
	assert.Equal(t, billing.DeductionPolicy{GSTOnRunningBills: true}, cfg.Policy())
	assert.Equal(t, billing.Office{ApprovingAuthority: "Chief Engineer", AuditorName: "R. K. Jain"}, cfg.BillingOffice())
}

func TestLoadMainConfigEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "log_level: info\nmax_concurrency: 2\n")
	t.Setenv("BILLGEN_LOG_LEVEL", "debug")
	t.Setenv("BILLGEN_MAX_CONCURRENCY", "8")
	t.Setenv("BILLGEN_OFFICE_AUDITOR_NAME", "S. Mehta")
	t.Setenv("BILLGEN_DEDUCTION_POLICY_LABOUR_CESS_ON_RUNNING_BILLS", "true")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, "S. Mehta", cfg.Office.AuditorName)
	assert.True(t, cfg.DeductionPolicy.LabourCessOnRunningBills)
}

func TestLoadMainConfigRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"log level":   "log_level: loud\n",
		"log format":  "log_format: xml\n",
		"format":      "output_formats: [docx]\n",
		"concurrency": "max_concurrency: -1\n",
		"pattern":     "input_pattern: \"[\"\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", body)
			_, err := LoadMainConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMainConfigMissingFile(t *testing.T) {
	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

const wallJob = `
job_name: boundary-wall
file_matching_patterns: ["wall_*.xlsx"]
bill:
  premium_percent: 7.5
  premium_type: below
  is_first_bill: false
  amount_paid_last_bill: 125000
  bill_type: FINAL BILL
  recovery_deposit_v: 500
metadata:
  contractor_name: M/s Sharma Builders
  work_name: Boundary wall
  work_order_amount: 450000
  start_date: 01/04/2024
  completion_date: 30/09/2024
  actual_completion_date: 2024-10-15
`

func TestLoadJobConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wall.yaml", wallJob)
	writeFile(t, dir, "road.yml", "file_matching_patterns: [\"road_*\"]\n")
	writeFile(t, dir, "notes.txt", "ignored")

	jobs, err := LoadJobConfigs(dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	road := jobs["road"]
	require.NotNil(t, road)
	assert.Equal(t, "Above", road.Bill.PremiumType)
	assert.Equal(t, string(types.BillRunning), road.Bill.BillType)
	require.NotNil(t, road.Bill.IsFirstBill)
	assert.True(t, *road.Bill.IsFirstBill)
	assert.Equal(t, ",", road.CSVSettings.Delimiter)

	assert.Same(t, jobs["boundary-wall"], MatchJob("/in/wall_march.xlsx", jobs))
	assert.Same(t, road, MatchJob("road_7.xlsx", jobs))
	assert.Nil(t, MatchJob("bridge.xlsx", jobs))
}

func TestLoadJobConfigsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "job_name: same\n")
	writeFile(t, dir, "b.yaml", "job_name: same\n")

	_, err := LoadJobConfigs(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "same" is defined in both`)
}

func TestJobParameters(t *testing.T) {
	job, err := LoadJobConfig(writeFile(t, t.TempDir(), "wall.yaml", wallJob))
	require.NoError(t, err)

	main := &MainConfig{DeductionPolicy: DeductionPolicy{GSTOnRunningBills: true}}
	params, err := job.Parameters(main)
	require.NoError(t, err)

	assert.Equal(t, 7.5, params.PremiumPercent)
	assert.Equal(t, types.PremiumBelow, params.PremiumType)
	assert.Equal(t, types.BillFinal, params.BillType)
	assert.False(t, params.IsFirstBill)
	assert.Equal(t, 125000.0, params.AmountPaidLastBill)
	assert.Equal(t, 500.0, params.RecoveryDepositV)
	assert.True(t, params.Policy.GSTOnRunningBills)

	meta := params.Metadata
	assert.Equal(t, "M/s Sharma Builders", meta.ContractorName)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), meta.StartDate)
	assert.Equal(t, time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC), meta.ActualCompletionDate)
	assert.True(t, meta.MeasurementDate.IsZero())

	require.NoError(t, params.Validate())
}

func TestJobParametersRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		job   JobConfig
		field string
	}{
		{"bill type", JobConfig{Bill: BillSettings{PremiumType: "Above", BillType: "interim"}}, "BillType"},
		{"premium type", JobConfig{Bill: BillSettings{PremiumType: "sideways", BillType: "final"}}, "PremiumType"},
		{"date", JobConfig{
			Bill:     BillSettings{PremiumType: "Above", BillType: "final"},
			Metadata: MetadataSettings{StartDate: "31/02/2024"},
		}, "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.job.Parameters(nil)
			var verr *billing.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"05/03/2024", " 05-03-2024 ", "2024-03-05"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	got, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("March 5")
	assert.Error(t, err)
}
