package profile

const (
	defaultCacheDir  = "~/.cache/cleanplate"
	defaultOutputDir = "cleaned"
	defaultLogDir    = "~/.local/share/cleanplate/logs"

	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60

	defaultMaskFileType           = "png"
	defaultInputHeightLowerTarget = 1000
	defaultInputHeightUpperTarget = 4000

	defaultDetectorCommand      = "comic-text-detector"
	defaultDetectorConfidence   = 0.4
	defaultDetectorTimeoutSecs  = 600
	defaultBoxMinSize           = 400
	defaultSuspiciousBoxMinSize = 40000

	defaultBoxPaddingInitial       = 2
	defaultBoxRightPaddingInitial  = 3
	defaultBoxPaddingExtended      = 5
	defaultBoxRightPaddingExtended = 5
	defaultBoxReferencePadding     = 20

	defaultOCRMaxSize = 3000
	// Bubbles holding only ellipses or stray punctuation carry no text worth
	// keeping a box for.
	defaultOCRBlacklistPattern = "^[～．ー…‥。.、！？!?・\\s]*$"

	defaultMaskGrowthStepPixels     = 2
	defaultMaskGrowthSteps          = 11
	defaultMinMaskThickness         = 4
	defaultOffWhiteMaxThreshold     = 240
	defaultMaskImprovementThreshold = 0.1
	defaultMaskMaxStdDeviation      = 15.0
	defaultDebugMaskColor           = "#6c1ef07f"

	defaultNoiseMinStdDeviation = 0.25
	defaultFilterStrength       = 10
	defaultColorFilterStrength  = 10
	defaultTemplateWindowSize   = 7
	defaultSearchWindowSize     = 21
)

// Default returns a Profile populated with repository defaults.
func Default() Profile {
	return Profile{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		General: General{
			PreferredMaskFileType:  defaultMaskFileType,
			InputHeightLowerTarget: defaultInputHeightLowerTarget,
			InputHeightUpperTarget: defaultInputHeightUpperTarget,
		},
		Detector: Detector{
			Command:             defaultDetectorCommand,
			ConfidenceThreshold: defaultDetectorConfidence,
			TimeoutSeconds:      defaultDetectorTimeoutSecs,
		},
		Preprocessor: Preprocessor{
			BoxMinSize:              defaultBoxMinSize,
			SuspiciousBoxMinSize:    defaultSuspiciousBoxMinSize,
			BoxPaddingInitial:       defaultBoxPaddingInitial,
			BoxRightPaddingInitial:  defaultBoxRightPaddingInitial,
			BoxPaddingExtended:      defaultBoxPaddingExtended,
			BoxRightPaddingExtended: defaultBoxRightPaddingExtended,
			BoxReferencePadding:     defaultBoxReferencePadding,
			OCREnabled:              true,
			OCRMaxSize:              defaultOCRMaxSize,
			OCRBlacklistPattern:     defaultOCRBlacklistPattern,
		},
		Masker: Masker{
			MaskGrowthStepPixels:     defaultMaskGrowthStepPixels,
			MaskGrowthSteps:          defaultMaskGrowthSteps,
			MinMaskThickness:         defaultMinMaskThickness,
			OffWhiteMaxThreshold:     defaultOffWhiteMaxThreshold,
			MaskImprovementThreshold: defaultMaskImprovementThreshold,
			MaskMaxStandardDeviation: defaultMaskMaxStdDeviation,
			DebugMaskColor:           defaultDebugMaskColor,
		},
		Denoiser: Denoiser{
			DenoisingEnabled:          true,
			NoiseMinStandardDeviation: defaultNoiseMinStdDeviation,
			FilterStrength:            defaultFilterStrength,
			ColorFilterStrength:       defaultColorFilterStrength,
			TemplateWindowSize:        defaultTemplateWindowSize,
			SearchWindowSize:          defaultSearchWindowSize,
		},
	}
}
