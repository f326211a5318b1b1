package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			Timezone:     "UTC",
			DefaultLimit: 100,
		},
		Analysis: AnalysisConfig{
			SessionGapMinutes: 30,
			TopDomainsLimit:   10,
			SensitiveDomains:  []string{},
		},
		Export: ExportConfig{
			Directory:     ".",
			DefaultFormat: "csv",
			ReportTitle:   "Browsing History Report",
		},
		Intel: IntelConfig{
			VirusTotalAPIKey: "",
			Ip2WhoisAPIKey:   "",
			TimeoutSeconds:   15,
		},
		Annotations: AnnotationsConfig{
			File: "~/.config/browserhunter/annotations.json",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
