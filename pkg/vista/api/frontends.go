package api

import (
	"io"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/domain"
	"kgeyst.com/vista/pkg/vista/infrastructure/openai"
	"kgeyst.com/vista/pkg/vista/infrastructure/speech"
	"kgeyst.com/vista/pkg/vista/infrastructure/tts"
)

// NewSpeaker prints everything said to `writer` and, if TTS is enabled, also reads it out loud with espeak.
func NewSpeaker(config *common.Config, writer io.Writer) domain.Speaker {
	settings := NewSettings(config)
	consoleSpeaker := tts.NewConsoleSpeaker(writer)
	if !settings.TTSEnabled {
		return consoleSpeaker
	}
	return tts.NewTeeSpeaker(
		consoleSpeaker,
		tts.NewEspeakSpeaker(settings.TTSCommand, settings.TTSRate, settings.TTSVolume, settings.TTSVoice),
	)
}

// NewMicrophoneListener records phrases with arecord and transcribes them with Whisper. Whisper always goes
// through the OpenAI API, so OPENAI_API_KEY is needed whatever the vision provider.
func NewMicrophoneListener(config *common.Config, logger common.Logger) (domain.Listener, error) {
	settings := NewSettings(config)
	apiKey, baseURL := apiKeyFromEnv(ProviderOpenAI), ""
	if settings.VisionProvider == ProviderOpenAI {
		apiKey, baseURL = settings.APIKey, settings.VisionBaseURL
	}
	transcriber, err := openai.NewTranscriber(
		apiKey,
		baseURL,
		settings.TranscriptionModel,
		settings.TranscriptionLanguage,
	)
	if err != nil {
		return nil, err
	}
	return speech.NewMicrophoneListener(
		transcriber,
		settings.RecordCommand,
		settings.MicrophoneDevice,
		settings.PhraseLength,
		logger,
	), nil
}
