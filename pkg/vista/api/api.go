package api

import (
	"context"
	"errors"
	"fmt"
	"io"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/domain"
	"kgeyst.com/vista/pkg/vista/infrastructure/anthropic"
	"kgeyst.com/vista/pkg/vista/infrastructure/camera"
	"kgeyst.com/vista/pkg/vista/infrastructure/filesystem"
	"kgeyst.com/vista/pkg/vista/infrastructure/gemini"
	"kgeyst.com/vista/pkg/vista/infrastructure/llavacpp"
	"kgeyst.com/vista/pkg/vista/infrastructure/logging"
	"kgeyst.com/vista/pkg/vista/infrastructure/ollama"
	"kgeyst.com/vista/pkg/vista/infrastructure/openai"
	"kgeyst.com/vista/pkg/vista/infrastructure/sqlite"
	"kgeyst.com/vista/pkg/vista/infrastructure/web"
)

// API is the entrypoint to the assistant. It shouldn't contain any logic of its own; it glues all the components
// together and provides a public interface for domain.AssistantService.
// This API can be used in various contexts: a voice loop on a Raspberry Pi, an IRC chat, console input/output etc.
type API interface {
	// Run listens for the trigger keyword and handles captures until the user says an exit keyword, the listener
	// runs dry or `ctx` is cancelled.
	Run(ctx context.Context) error
	// HandleUtterance reacts to a single recognized utterance ("click read the prescription") as Run would.
	HandleUtterance(ctx context.Context, text string) (domain.Command, error)
	// Answer takes a picture (or downloads the image URL mentioned in `request`) and returns the description without
	// speaking. Useful for text front-ends.
	Answer(ctx context.Context, request string) (string, error)
	// Describe describes an already encoded image (JPEG, PNG, GIF or WebP) according to `request` (can be empty).
	Describe(ctx context.Context, image []byte, request string) (string, error)
	// History returns up to `limit` latest analyses, newest first. Empty if the journal is disabled.
	History(ctx context.Context, limit int) ([]*domain.Analysis, error)
	// Close waits for pending captures to be saved and releases resources.
	Close() error
}

type api struct {
	assistantService *domain.AssistantService
	jobQueue         *common.JobQueue
	closers          []io.Closer
	logger           common.Logger
}

// NewLogger creates the logger described by the config. Create it once and share it with whatever the front-end
// builds itself (listeners, speakers).
func NewLogger(config *common.Config) common.Logger {
	return common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "vista.log"))
}

// NewAPI `listener` can be nil for front-ends which never call Run.
func NewAPI(
	ctx context.Context,
	config *common.Config,
	logger common.Logger,
	listener domain.Listener,
	speaker domain.Speaker,
) (API, error) {
	settings := NewSettings(config)
	err := settings.Validate()
	if err != nil {
		return nil, err
	}
	a := &api{logger: logger}
	visionModel, err := newVisionModel(ctx, settings)
	if err != nil {
		return nil, err
	}
	if closer, ok := visionModel.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}
	imageSourceSelector := newImageSourceSelector(settings)
	var captureStore domain.CaptureStore
	if settings.SaveCaptures {
		store, err := filesystem.NewCaptureStore(settings.ImageDir)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		captureStore = store
	}
	var journal domain.Journal
	if settings.JournalPath != "" {
		sqliteJournal, err := sqlite.NewJournal(settings.JournalPath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, sqliteJournal)
		journal = sqliteJournal
	}
	a.jobQueue = common.NewJobQueue(logger)
	a.assistantService = domain.NewAssistantService(
		settings.AssistantSettings(),
		imageSourceSelector,
		logging.NewVisionModelDecorator(visionModel, logger),
		listener,
		speaker,
		captureStore,
		journal,
		a.jobQueue,
		logger,
	)
	logger.Info(
		"assistant configured",
		"provider", settings.VisionProvider,
		"model", visionModel.Name(),
		"camera", settings.Camera,
		"keyword", settings.TriggerKeyword,
	)
	return a, nil
}

// Run see API.Run
func (a *api) Run(ctx context.Context) error {
	return a.assistantService.Run(ctx)
}

// HandleUtterance see API.HandleUtterance
func (a *api) HandleUtterance(ctx context.Context, text string) (domain.Command, error) {
	return a.assistantService.HandleUtterance(ctx, text)
}

// Answer see API.Answer
func (a *api) Answer(ctx context.Context, request string) (string, error) {
	analysis, err := a.assistantService.Describe(ctx, request)
	if err != nil {
		return "", err
	}
	return analysis.Description, nil
}

// Describe see API.Describe
func (a *api) Describe(ctx context.Context, image []byte, request string) (string, error) {
	analysis, err := a.assistantService.Analyze(ctx, domain.NewCapture(image, "", "upload"), request)
	if err != nil {
		return "", err
	}
	return analysis.Description, nil
}

// History see API.History
func (a *api) History(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	return a.assistantService.History(ctx, limit)
}

// Close see API.Close
func (a *api) Close() error {
	if a.jobQueue != nil {
		a.jobQueue.Stop()
	}
	var errs []error
	for _, closer := range a.closers {
		errs = append(errs, closer.Close())
	}
	_ = a.logger.Sync() // fails on stdout for some terminals
	return errors.Join(errs...)
}

func newVisionModel(ctx context.Context, settings *Settings) (domain.VisionModel, error) {
	switch settings.VisionProvider {
	case ProviderGemini:
		return gemini.NewVisionModel(ctx, settings.APIKey, settings.VisionModel)
	case ProviderOpenAI:
		return openai.NewVisionModel(settings.APIKey, settings.VisionBaseURL, settings.VisionModel, settings.VisionMaxTokens)
	case ProviderAnthropic:
		return anthropic.NewVisionModel(settings.APIKey, settings.VisionBaseURL, settings.VisionModel, settings.VisionMaxTokens)
	case ProviderOllama:
		return ollama.NewVisionModel(settings.OllamaHost, settings.VisionModel, settings.ModelTimeout)
	case ProviderLlavaCpp:
		return llavacpp.NewVisionModel(llavacpp.Paths{
			Binary:     settings.LlavaBinary,
			Model:      settings.LlavaModel,
			Projection: settings.LlavaProjection,
		}, settings.LlavaTemperature), nil
	default:
		return nil, fmt.Errorf("%w: unknown vision provider %q", domain.ErrInvalidParameter, settings.VisionProvider)
	}
}

func newCamera(settings *Settings) domain.Camera {
	if settings.Camera == CameraFile {
		return camera.NewFileCamera(settings.SimulationImagePath)
	}
	return camera.NewCommandCamera(settings.CameraCommand, settings.CameraWidth, settings.CameraHeight, settings.CameraWarmup)
}

func newImageSourceSelector(settings *Settings) *domain.ImageSourceSelector {
	defaultCamera := newCamera(settings)
	if !settings.AllowImageURLs {
		return domain.NewImageSourceSelector(nil, nil, defaultCamera)
	}
	return domain.NewImageSourceSelector(web.NewURLFinder(), web.NewURLCameraFactory(settings.MaxDownloadBytes), defaultCamera)
}
