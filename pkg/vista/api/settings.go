package api

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/domain"
)

const (
	ConfigKeyLogPath             = "logPath"
	ConfigKeyTriggerKeyword      = "triggerKeyword"
	ConfigKeyExitKeywords        = "exitKeywords"
	ConfigKeyMaxImageSize        = "maxImageSize"
	ConfigKeyJPEGQuality         = "jpegQuality"
	ConfigKeyVisionProvider      = "visionProvider"
	ConfigKeyVisionModel         = "visionModel"
	ConfigKeyVisionBaseURL       = "visionBaseURL"
	ConfigKeyVisionMaxTokens     = "visionMaxTokens"
	ConfigKeyAPIKey              = "apiKey"
	ConfigKeyModelTimeout        = "modelTimeout"
	ConfigKeyOllamaHost          = "ollamaHost"
	ConfigKeyLlavaBinary         = "llavaBinary"
	ConfigKeyLlavaModel          = "llavaModel"
	ConfigKeyLlavaProjection     = "llavaProjection"
	ConfigKeyLlavaTemperature    = "llavaTemperature"
	ConfigKeyCamera              = "camera"
	ConfigKeyCameraCommand       = "cameraCommand"
	ConfigKeyCameraWidth         = "cameraWidth"
	ConfigKeyCameraHeight        = "cameraHeight"
	ConfigKeyCameraWarmup        = "cameraWarmup"
	ConfigKeySimulationImagePath = "simulationImagePath"
	ConfigKeyAllowImageURLs      = "allowImageURLs"
	ConfigKeyMaxDownloadBytes    = "maxDownloadBytes"
	ConfigKeySaveCaptures        = "saveCaptures"
	ConfigKeyImageDir            = "imageDir"
	ConfigKeyJournalPath         = "journalPath"
	ConfigKeyListenRetryDelay    = "listenRetryDelay"
	ConfigKeyTTSEnabled          = "ttsEnabled"
	ConfigKeyTTSCommand          = "ttsCommand"
	ConfigKeyTTSRate             = "ttsRate"
	ConfigKeyTTSVolume           = "ttsVolume"
	ConfigKeyTTSVoice            = "ttsVoice"
	ConfigKeyRecordCommand       = "recordCommand"
	ConfigKeyMicrophoneDevice    = "microphoneDevice"
	ConfigKeyPhraseLength        = "phraseLength"
	ConfigKeyTranscriptionModel  = "transcriptionModel"
	ConfigKeyTranscriptionLang   = "transcriptionLanguage"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderLlavaCpp  = "llavacpp"

	CameraCommand = "command"
	CameraFile    = "file"
)

// Settings is the typed view of config.yaml. Every field has a default, so an empty config is valid (provided an
// API key is found in the environment).
type Settings struct {
	LogPath string

	TriggerKeyword string   `validate:"required"`
	ExitKeywords   []string `validate:"required,dive,required"`
	MaxImageSize   int      `validate:"gt=0"`
	JPEGQuality    int      `validate:"min=1,max=100"`

	VisionProvider  string `validate:"oneof=gemini openai anthropic ollama llavacpp"`
	VisionModel     string
	VisionBaseURL   string `validate:"omitempty,url"`
	VisionMaxTokens int    `validate:"min=0"`
	APIKey          string
	ModelTimeout    time.Duration `validate:"min=0"`
	OllamaHost      string

	LlavaBinary      string
	LlavaModel       string
	LlavaProjection  string
	LlavaTemperature float64 `validate:"min=0"`

	Camera              string `validate:"oneof=command file"`
	CameraCommand       string
	CameraWidth         int           `validate:"gt=0"`
	CameraHeight        int           `validate:"gt=0"`
	CameraWarmup        time.Duration `validate:"min=0"`
	SimulationImagePath string        `validate:"required_if=Camera file"`
	AllowImageURLs      bool
	MaxDownloadBytes    int64 `validate:"gt=0"`

	SaveCaptures     bool
	ImageDir         string `validate:"required_if=SaveCaptures true"`
	JournalPath      string
	ListenRetryDelay time.Duration `validate:"min=0"`

	TTSEnabled bool
	TTSCommand string
	TTSRate    int     `validate:"gt=0"`
	TTSVolume  float64 `validate:"min=0,max=1"`
	TTSVoice   string

	RecordCommand         string
	MicrophoneDevice      string
	PhraseLength          time.Duration `validate:"gt=0"`
	TranscriptionModel    string
	TranscriptionLanguage string
}

// NewSettings reads the settings from the config, falling back to the defaults.
func NewSettings(config *common.Config) *Settings {
	provider := strings.ToLower(config.GetStringOrDefault(ConfigKeyVisionProvider, ProviderGemini))
	settings := &Settings{
		LogPath:               config.GetStringOrDefault(ConfigKeyLogPath, "vista.log"),
		TriggerKeyword:        strings.ToLower(strings.TrimSpace(config.GetStringOrDefault(ConfigKeyTriggerKeyword, "click"))),
		ExitKeywords:          lowerAll(config.GetStringSliceOrDefault(ConfigKeyExitKeywords, []string{"exit", "quit", "stop"})),
		MaxImageSize:          config.GetIntOrDefault(ConfigKeyMaxImageSize, 1024),
		JPEGQuality:           config.GetIntOrDefault(ConfigKeyJPEGQuality, 85),
		VisionProvider:        provider,
		VisionModel:           config.GetString(ConfigKeyVisionModel),
		VisionBaseURL:         config.GetString(ConfigKeyVisionBaseURL),
		VisionMaxTokens:       config.GetIntOrDefault(ConfigKeyVisionMaxTokens, 1024),
		APIKey:                config.GetString(ConfigKeyAPIKey),
		ModelTimeout:          config.GetDurationOrDefault(ConfigKeyModelTimeout, 60*time.Second),
		OllamaHost:            withScheme(config.GetStringOrDefault(ConfigKeyOllamaHost, os.Getenv("OLLAMA_HOST"))),
		LlavaBinary:           config.GetStringOrDefault(ConfigKeyLlavaBinary, "llava.cpp"),
		LlavaModel:            config.GetStringOrDefault(ConfigKeyLlavaModel, "llava.bin"),
		LlavaProjection:       config.GetStringOrDefault(ConfigKeyLlavaProjection, "llava-proj.bin"),
		LlavaTemperature:      config.GetFloatOrDefault(ConfigKeyLlavaTemperature, 0.1),
		Camera:                strings.ToLower(config.GetStringOrDefault(ConfigKeyCamera, CameraCommand)),
		CameraCommand:         config.GetString(ConfigKeyCameraCommand),
		CameraWidth:           config.GetIntOrDefault(ConfigKeyCameraWidth, 1920),
		CameraHeight:          config.GetIntOrDefault(ConfigKeyCameraHeight, 1080),
		CameraWarmup:          config.GetDurationOrDefault(ConfigKeyCameraWarmup, 2*time.Second),
		SimulationImagePath:   config.GetString(ConfigKeySimulationImagePath),
		AllowImageURLs:        config.GetBoolOrDefault(ConfigKeyAllowImageURLs, true),
		MaxDownloadBytes:      int64(config.GetIntOrDefault(ConfigKeyMaxDownloadBytes, 20*1024*1024)),
		SaveCaptures:          config.GetBoolOrDefault(ConfigKeySaveCaptures, true),
		ImageDir:              config.GetStringOrDefault(ConfigKeyImageDir, "captured_images"),
		JournalPath:           config.GetString(ConfigKeyJournalPath),
		ListenRetryDelay:      config.GetDurationOrDefault(ConfigKeyListenRetryDelay, time.Second),
		TTSEnabled:            config.GetBoolOrDefault(ConfigKeyTTSEnabled, true),
		TTSCommand:            config.GetString(ConfigKeyTTSCommand),
		TTSRate:               config.GetIntOrDefault(ConfigKeyTTSRate, 150),
		TTSVolume:             config.GetFloatOrDefault(ConfigKeyTTSVolume, 0.9),
		TTSVoice:              config.GetString(ConfigKeyTTSVoice),
		RecordCommand:         config.GetString(ConfigKeyRecordCommand),
		MicrophoneDevice:      config.GetString(ConfigKeyMicrophoneDevice),
		PhraseLength:          config.GetDurationOrDefault(ConfigKeyPhraseLength, 5*time.Second),
		TranscriptionModel:    config.GetString(ConfigKeyTranscriptionModel),
		TranscriptionLanguage: config.GetStringOrDefault(ConfigKeyTranscriptionLang, "en"),
	}
	if settings.APIKey == "" {
		settings.APIKey = apiKeyFromEnv(provider)
	}
	return settings
}

func (s *Settings) Validate() error {
	err := validator.New().Struct(s)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParameter, err)
	}
	return nil
}

func (s *Settings) OptimizationParams() domain.OptimizationParams {
	return domain.OptimizationParams{
		MaxDimension: s.MaxImageSize,
		Quality:      s.JPEGQuality,
	}
}

func (s *Settings) AssistantSettings() domain.AssistantSettings {
	return domain.AssistantSettings{
		TriggerKeyword:   s.TriggerKeyword,
		ExitKeywords:     s.ExitKeywords,
		Optimization:     s.OptimizationParams(),
		ModelTimeout:     s.ModelTimeout,
		ListenRetryDelay: s.ListenRetryDelay,
	}
}

// RequiresAPIKey local providers work without one.
func (s *Settings) RequiresAPIKey() bool {
	return s.VisionProvider != ProviderOllama && s.VisionProvider != ProviderLlavaCpp
}

// APIKeyEnvVars lists where the key for `provider` is looked up, in order.
func APIKeyEnvVars(provider string) []string {
	switch provider {
	case ProviderGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	default:
		return nil
	}
}

func apiKeyFromEnv(provider string) string {
	for _, name := range APIKeyEnvVars(provider) {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

// withScheme OLLAMA_HOST is often just "127.0.0.1:11434".
func withScheme(host string) string {
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}

func lowerAll(strs []string) []string {
	result := make([]string, 0, len(strs))
	for _, str := range strs {
		str = strings.ToLower(strings.TrimSpace(str))
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}
