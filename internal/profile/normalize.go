package profile

import (
	"fmt"
	"strings"
)

func (p *Profile) normalize() error {
	if err := p.normalizePaths(); err != nil {
		return err
	}
	p.normalizeGeneral()
	if err := p.normalizeDetector(); err != nil {
		return err
	}
	p.normalizePreprocessor()
	p.normalizeMasker()
	p.normalizeDenoiser()
	p.normalizeLogging()
	return nil
}

func (p *Profile) normalizePaths() error {
	var err error
	if strings.TrimSpace(p.Paths.CacheDir) == "" {
		p.Paths.CacheDir = defaultCacheDir
	}
	if p.Paths.CacheDir, err = expandPath(p.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(p.Paths.OutputDir) == "" {
		p.Paths.OutputDir = defaultOutputDir
	}
	if p.Paths.OutputDir, err = expandPath(p.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(p.Paths.LogDir) == "" {
		p.Paths.LogDir = defaultLogDir
	}
	if p.Paths.LogDir, err = expandPath(p.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (p *Profile) normalizeGeneral() {
	p.General.PreferredFileType = normalizeFileType(p.General.PreferredFileType)
	p.General.PreferredMaskFileType = normalizeFileType(p.General.PreferredMaskFileType)
	if p.General.PreferredMaskFileType == "" {
		p.General.PreferredMaskFileType = defaultMaskFileType
	}
}

func (p *Profile) normalizeDetector() error {
	p.Detector.Command = strings.TrimSpace(p.Detector.Command)
	if p.Detector.Command == "" {
		p.Detector.Command = defaultDetectorCommand
	}
	var err error
	if p.Detector.ModelPath, err = expandPath(strings.TrimSpace(p.Detector.ModelPath)); err != nil {
		return fmt.Errorf("detector.model_path: %w", err)
	}
	if p.Detector.TimeoutSeconds <= 0 {
		p.Detector.TimeoutSeconds = defaultDetectorTimeoutSecs
	}
	return nil
}

func (p *Profile) normalizePreprocessor() {
	p.Preprocessor.OCRBlacklistPattern = strings.TrimSpace(p.Preprocessor.OCRBlacklistPattern)
}

func (p *Profile) normalizeMasker() {
	p.Masker.DebugMaskColor = strings.ToLower(strings.TrimSpace(p.Masker.DebugMaskColor))
	if p.Masker.DebugMaskColor == "" {
		p.Masker.DebugMaskColor = defaultDebugMaskColor
	}
}

func (p *Profile) normalizeDenoiser() {
	if p.Denoiser.TemplateWindowSize <= 0 {
		p.Denoiser.TemplateWindowSize = defaultTemplateWindowSize
	}
	if p.Denoiser.SearchWindowSize <= 0 {
		p.Denoiser.SearchWindowSize = defaultSearchWindowSize
	}
}

func (p *Profile) normalizeLogging() {
	p.Logging.Format = strings.ToLower(strings.TrimSpace(p.Logging.Format))
	switch p.Logging.Format {
	case "", "console":
		p.Logging.Format = "console"
	case "json":
	default:
		p.Logging.Format = "console"
	}
	p.Logging.Level = strings.ToLower(strings.TrimSpace(p.Logging.Level))
	if p.Logging.Level == "" {
		p.Logging.Level = defaultLogLevel
	}
	if p.Logging.RetentionDays < 0 {
		p.Logging.RetentionDays = 0
	}
}

func normalizeFileType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, ".")
	if value == "jpeg" {
		value = "jpg"
	}
	return value
}
