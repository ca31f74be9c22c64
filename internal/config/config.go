// =============================================================================
// Contractor Bill Generator - Configuration Module
// =============================================================================
//
// This module loads the main application configuration and the per-bill job
// configurations.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): directories, logging, outputs, office policy
//   2. Job Configs (jobs/*.yaml): tender terms and contract details of a bill
//
// Values from the main config can be overridden from the environment with
// the BILLGEN_ prefix (for example BILLGEN_LOG_LEVEL=debug). A .env file in
// the working directory is loaded into the environment first by the CLI.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BILLGEN"

// Output formats a run can write.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for bill workbooks.
	// Default: "./input"
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR"`

	// InputPattern selects the workbooks in InputDir.
	// Default: "*.xlsx"
	InputPattern string `yaml:"input_pattern" envconfig:"INPUT_PATTERN"`

	// OutputDir receives the generated documents.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// InputArchiveDir receives workbooks after a successful run.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" envconfig:"INPUT_ARCHIVE_DIR"`

	// OutputArchiveDir receives a copy of every generated document.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" envconfig:"OUTPUT_ARCHIVE_DIR"`

	// JobsDir holds one YAML file per bill job.
	// Default: "./jobs"
	JobsDir string `yaml:"jobs_dir" envconfig:"JOBS_DIR"`

	// ArchiveOnSuccess moves processed workbooks to InputArchiveDir.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success" envconfig:"ARCHIVE_ON_SUCCESS"`

	// UseTimestampSubdirs files archives under YYYY/MM/DD.
	UseTimestampSubdirs bool `yaml:"use_timestamp_subdirs" envconfig:"USE_TIMESTAMP_SUBDIRS"`

	// ArchiveRetentionDays removes archived files older than this many days
	// at the start of a batch. Zero keeps everything.
	ArchiveRetentionDays int `yaml:"archive_retention_days" envconfig:"ARCHIVE_RETENTION_DAYS"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat names the documents of one run. Placeholders:
	//   {uuid}      - a random UUID
	//   {timestamp} - the current time (YYYYMMDD_HHMMSS)
	//   {job}       - the job name
	//   {input}     - the input file name without extension
	// Default: "{job}_{timestamp}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format" envconfig:"OUTPUT_NAME_FORMAT"`

	// OutputFormats lists the formats to write: json, pdf, xlsx.
	// Default: all three
	OutputFormats []string `yaml:"output_formats" envconfig:"OUTPUT_FORMATS"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds the number of workbooks processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY"`

	// ContinueOnError keeps processing the batch after a workbook fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error" envconfig:"CONTINUE_ON_ERROR"`

	// =========================================================================
	// OFFICE POLICY
	// =========================================================================

	// DeductionPolicy widens the recoveries taken from running bills.
	DeductionPolicy DeductionPolicy `yaml:"deduction_policy" envconfig:"DEDUCTION_POLICY"`

	// Office names who approves and audits the bills.
	Office Office `yaml:"office" envconfig:"OFFICE"`
}

// DeductionPolicy mirrors billing.DeductionPolicy in the config file.
type DeductionPolicy struct {
	GSTOnRunningBills        bool `yaml:"gst_on_running_bills" envconfig:"GST_ON_RUNNING_BILLS"`
	LabourCessOnRunningBills bool `yaml:"labour_cess_on_running_bills" envconfig:"LABOUR_CESS_ON_RUNNING_BILLS"`
}

// Office mirrors billing.Office in the config file.
type Office struct {
	// ApprovingAuthority approves deviations and delays beyond the office's
	// own powers. Default: "Superintending Engineer"
	ApprovingAuthority string `yaml:"approving_authority" envconfig:"APPROVING_AUTHORITY"`

	// AuditorName is printed at the foot of the note sheet when set.
	AuditorName string `yaml:"auditor_name" envconfig:"AUDITOR_NAME"`
}

// Policy returns the deduction policy for the billing engine.
func (c *MainConfig) Policy() billing.DeductionPolicy {
	return billing.DeductionPolicy{
		GSTOnRunningBills:        c.DeductionPolicy.GSTOnRunningBills,
		LabourCessOnRunningBills: c.DeductionPolicy.LabourCessOnRunningBills,
	}
}

// BillingOffice returns the office details for the note sheet.
func (c *MainConfig) BillingOffice() billing.Office {
	return billing.Office{
		ApprovingAuthority: c.Office.ApprovingAuthority,
		AuditorName:        c.Office.AuditorName,
	}
}

// WantsFormat reports whether format is among OutputFormats.
func (c *MainConfig) WantsFormat(format string) bool {
	return slices.Contains(c.OutputFormats, format)
}

// ShouldArchive reports whether processed workbooks are archived.
func (c *MainConfig) ShouldArchive() bool {
	return c.ArchiveOnSuccess == nil || *c.ArchiveOnSuccess
}

// FileManager returns a file manager over the configured directories.
func (c *MainConfig) FileManager() *utils.FileManager {
	fm := utils.NewFileManager(c.InputDir, c.OutputDir, c.InputArchiveDir, c.OutputArchiveDir)
	fm.ArchiveOnSuccess = c.ShouldArchive()
	fm.UseTimestampSubdirs = c.UseTimestampSubdirs
	return fm
}

// ShouldContinueOnError reports whether a failed workbook stops the batch.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// =============================================================================
// JOB CONFIGURATION STRUCTURE
// =============================================================================

// JobConfig holds the terms of one bill job. A workbook whose file name
// matches one of FileMatchingPatterns is billed with these terms.
type JobConfig struct {
	// JobName identifies the job in logs and output names.
	JobName string `yaml:"job_name"`

	// FileMatchingPatterns are glob patterns matched against workbook file
	// names, for example "wall_*.xlsx".
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`

	// Bill holds the tender premium and billing stage.
	Bill BillSettings `yaml:"bill"`

	// Metadata holds the contract details printed on every document.
	Metadata MetadataSettings `yaml:"metadata"`

	// CSVSettings applies when the input is a directory of CSV sheets.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// SourceFile is the YAML file the job was loaded from.
	SourceFile string `yaml:"-"`
}

// BillSettings are the tender terms of a job.
type BillSettings struct {
	// PremiumPercent is the tender premium in percent, 0 to 100.
	PremiumPercent float64 `yaml:"premium_percent"`

	// PremiumType is "Above", "Below" or "Fixed". Default: "Above"
	PremiumType string `yaml:"premium_type"`

	// PremiumFixedAmount is used when PremiumType is "Fixed".
	PremiumFixedAmount float64 `yaml:"premium_fixed_amount"`

	// AmountPaidLastBill is required for every bill after the first.
	AmountPaidLastBill float64 `yaml:"amount_paid_last_bill"`

	// IsFirstBill marks the first bill of the contract. Default: true
	IsFirstBill *bool `yaml:"is_first_bill"`

	// BillType is "Running Bill" or "Final Bill", in any casing.
	// Default: "Running Bill"
	BillType string `yaml:"bill_type"`

	// RecoveryDepositV is an additional recovery entered by the office.
	RecoveryDepositV float64 `yaml:"recovery_deposit_v"`
}

// MetadataSettings are the contract details. Dates are DD/MM/YYYY.
type MetadataSettings struct {
	ContractorName       string  `yaml:"contractor_name"`
	WorkName             string  `yaml:"work_name"`
	BillSerial           string  `yaml:"bill_serial"`
	AgreementNo          string  `yaml:"agreement_no"`
	WorkOrderRef         string  `yaml:"work_order_ref"`
	WorkOrderAmount      float64 `yaml:"work_order_amount"`
	StartDate            string  `yaml:"start_date"`
	CompletionDate       string  `yaml:"completion_date"`
	ActualCompletionDate string  `yaml:"actual_completion_date"`
	MeasurementDate      string  `yaml:"measurement_date"`
	OrderDate            string  `yaml:"order_date"`
}

// CSVSettings contains settings for reading CSV sheets.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon". Default: ","
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file and applies
// environment overrides.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides win over the file.
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.InputPattern == "" {
		config.InputPattern = "*.xlsx"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.JobsDir == "" {
		config.JobsDir = "./jobs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{job}_{timestamp}_{uuid}"
	}
	if len(config.OutputFormats) == 0 {
		config.OutputFormats = []string{FormatJSON, FormatPDF, FormatXLSX}
	}
	for i, f := range config.OutputFormats {
		config.OutputFormats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", config.LogFormat)
	}

	for _, f := range config.OutputFormats {
		switch f {
		case FormatJSON, FormatPDF, FormatXLSX:
		default:
			return fmt.Errorf("unknown output format %q", f)
		}
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	if config.ArchiveRetentionDays < 0 {
		return fmt.Errorf("archive_retention_days cannot be negative, got %d", config.ArchiveRetentionDays)
	}

	if _, err := filepath.Match(config.InputPattern, ""); err != nil {
		return fmt.Errorf("invalid input_pattern %q: %w", config.InputPattern, err)
	}

	return nil
}

// LoadJobConfigs loads all job configurations from a directory.
//
// PARAMETERS:
//   - jobsDir: The directory containing job YAML files.
//
// RETURNS:
//   - A map of job configurations keyed by job name.
//   - An error if a file cannot be parsed or two files share a job name.
func LoadJobConfigs(jobsDir string) (map[string]*JobConfig, error) {
	configs := make(map[string]*JobConfig)

	files, err := filepath.Glob(filepath.Join(jobsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list job files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(jobsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list job files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		job, err := LoadJobConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		if existing, ok := configs[job.JobName]; ok {
			return nil, fmt.Errorf("job %q is defined in both %s and %s", job.JobName, existing.SourceFile, file)
		}
		configs[job.JobName] = job
	}

	return configs, nil
}

// LoadJobConfig loads a single job file. A job without a name takes the
// file name without its extension.
func LoadJobConfig(filePath string) (*JobConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var job JobConfig
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	job.SourceFile = filePath
	if job.JobName == "" {
		job.JobName = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	applyJobConfigDefaults(&job)

	for _, pattern := range job.FileMatchingPatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid file matching pattern %q: %w", pattern, err)
		}
	}

	return &job, nil
}

// applyJobConfigDefaults sets default values for a job configuration.
func applyJobConfigDefaults(job *JobConfig) {
	if job.Bill.PremiumType == "" {
		job.Bill.PremiumType = string(types.PremiumAbove)
	}
	if job.Bill.BillType == "" {
		job.Bill.BillType = string(types.BillRunning)
	}
	if job.Bill.IsFirstBill == nil {
		first := true
		job.Bill.IsFirstBill = &first
	}
	if job.CSVSettings.Delimiter == "" {
		job.CSVSettings.Delimiter = ","
	}
}

// MatchJob finds the job whose patterns match the file name. Jobs are tried
// in name order so the result does not depend on map iteration.
//
// RETURNS:
//   - The matching job, or nil if no job matches.
func MatchJob(filePath string, jobs map[string]*JobConfig) *JobConfig {
	fileName := filepath.Base(filePath)

	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		job := jobs[name]
		for _, pattern := range job.FileMatchingPatterns {
			if matched, _ := filepath.Match(pattern, fileName); matched {
				return job
			}
		}
	}
	return nil
}

// =============================================================================
// PARAMETER CONVERSION
// =============================================================================

// Parameters converts the job into the billing engine's request, taking the
// deduction policy from the main configuration. Unknown premium or bill
// types and unreadable dates are reported as validation errors.
func (j *JobConfig) Parameters(main *MainConfig) (billing.Parameters, error) {
	premiumType, ok := types.ParsePremiumType(j.Bill.PremiumType)
	if !ok {
		return billing.Parameters{}, billing.NewValidationError("PremiumType",
			fmt.Sprintf("Premium type must be Above, Below or Fixed, got %q", j.Bill.PremiumType))
	}
	billType, ok := types.ParseBillType(j.Bill.BillType)
	if !ok {
		return billing.Parameters{}, billing.NewValidationError("BillType",
			"Invalid bill type. Must be either 'Final Bill' or 'Running Bill'")
	}

	meta, err := j.Metadata.toMetadata()
	if err != nil {
		return billing.Parameters{}, err
	}

	params := billing.Parameters{
		PremiumPercent:     j.Bill.PremiumPercent,
		PremiumType:        premiumType,
		PremiumFixedAmount: j.Bill.PremiumFixedAmount,
		AmountPaidLastBill: j.Bill.AmountPaidLastBill,
		IsFirstBill:        j.Bill.IsFirstBill == nil || *j.Bill.IsFirstBill,
		BillType:           billType,
		RecoveryDepositV:   j.Bill.RecoveryDepositV,
		Metadata:           meta,
	}
	if main != nil {
		params.Policy = main.Policy()
	}
	return params, nil
}

func (m MetadataSettings) toMetadata() (types.Metadata, error) {
	meta := types.Metadata{
		ContractorName:  m.ContractorName,
		WorkName:        m.WorkName,
		BillSerial:      m.BillSerial,
		AgreementNo:     m.AgreementNo,
		WorkOrderRef:    m.WorkOrderRef,
		WorkOrderAmount: m.WorkOrderAmount,
	}

	dates := []struct {
		field string
		raw   string
		dst   *time.Time
	}{
		{"start_date", m.StartDate, &meta.StartDate},
		{"completion_date", m.CompletionDate, &meta.CompletionDate},
		{"actual_completion_date", m.ActualCompletionDate, &meta.ActualCompletionDate},
		{"measurement_date", m.MeasurementDate, &meta.MeasurementDate},
		{"order_date", m.OrderDate, &meta.OrderDate},
	}
	for _, d := range dates {
		t, err := ParseDate(d.raw)
		if err != nil {
			return types.Metadata{}, billing.NewValidationError(d.field,
				fmt.Sprintf("%s %q is not a valid date (use DD/MM/YYYY)", d.field, d.raw))
		}
		*d.dst = t
	}
	return meta, nil
}

// dateLayouts are tried in order; the first is how dates are printed.
var dateLayouts = []string{billing.DateLayout, "02-01-2006", "2006-01-02"}

// ParseDate reads a DD/MM/YYYY date. DD-MM-YYYY and ISO dates are also
// accepted. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, lastErr)
}
