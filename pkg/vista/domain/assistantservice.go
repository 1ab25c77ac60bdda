package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"kgeyst.com/vista/pkg/common"
)

const (
	readyMessage           = "AI Vision Assistant ready"
	takingPictureMessage   = "Taking picture"
	analyzingMessage       = "Analyzing"
	goodbyeMessage         = "Goodbye"
	processingErrorMessage = "Sorry, I encountered an error processing the image"
	analyzingErrorMessage  = "Sorry, I encountered an error analyzing the image"
)

const optimizedMIMEType = "image/jpeg"

type AssistantSettings struct {
	TriggerKeyword string
	ExitKeywords   []string
	Optimization   OptimizationParams
	// ModelTimeout limits a single vision model call; zero means no limit.
	ModelTimeout time.Duration
	// ListenRetryDelay is how long to wait after the listener fails before listening again.
	ListenRetryDelay time.Duration
}

// AssistantService is the main orchestrator: it waits for the trigger keyword, takes a picture, shrinks it, picks
// a prompt for what the user asked and reads the vision model's answer out loud.
type AssistantService struct {
	mutex               sync.Mutex
	settings            AssistantSettings
	imageSourceSelector *ImageSourceSelector
	visionModel         VisionModel
	listener            Listener
	speaker             Speaker
	captureStore        CaptureStore
	journal             Journal
	jobQueue            *common.JobQueue
	logger              common.Logger
}

// NewAssistantService `listener`, `captureStore`, `journal` and `jobQueue` are optional (nil). Without a job queue,
// captures are saved synchronously.
func NewAssistantService(
	settings AssistantSettings,
	imageSourceSelector *ImageSourceSelector,
	visionModel VisionModel,
	listener Listener,
	speaker Speaker,
	captureStore CaptureStore,
	journal Journal,
	jobQueue *common.JobQueue,
	logger common.Logger,
) *AssistantService {
	return &AssistantService{
		settings:            settings,
		imageSourceSelector: imageSourceSelector,
		visionModel:         visionModel,
		listener:            listener,
		speaker:             speaker,
		captureStore:        captureStore,
		journal:             journal,
		jobQueue:            jobQueue,
		logger:              logger,
	}
}

// Run see API.Run
func (a *AssistantService) Run(ctx context.Context) error {
	if a.listener == nil {
		return ErrNoListener
	}
	a.say(ctx, readyMessage)
	for {
		if ctx.Err() != nil {
			return nil
		}
		text, err := a.listener.Listen(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.logger.Error("failed to listen", err)
			if !sleep(ctx, a.settings.ListenRetryDelay) {
				return nil
			}
			continue
		}
		command, err := a.HandleUtterance(ctx, text)
		if err != nil {
			a.logger.Error("failed to handle utterance", err, "text", text)
		}
		if command.Kind == CommandKindExit {
			return nil
		}
	}
}

// HandleUtterance see API.HandleUtterance
func (a *AssistantService) HandleUtterance(ctx context.Context, text string) (Command, error) {
	command := ParseCommand(text, a.settings.TriggerKeyword, a.settings.ExitKeywords)
	switch command.Kind {
	case CommandKindExit:
		a.logger.Log("exit command received")
		a.say(ctx, goodbyeMessage)
	case CommandKindCapture:
		a.logger.Info("keyword detected", "keyword", a.settings.TriggerKeyword, "request", command.Request)
		_, err := a.Process(ctx, command.Request)
		return command, err
	}
	return command, nil
}

// Process takes a picture, analyzes it according to `request` (can be empty) and speaks the result. Failures are
// apologized for out loud and returned.
func (a *AssistantService) Process(ctx context.Context, request string) (string, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.say(ctx, takingPictureMessage)
	capture, request, err := a.capture(ctx, request)
	if err != nil {
		a.say(ctx, processingErrorMessage)
		return "", err
	}
	a.say(ctx, analyzingMessage)
	analysis, err := a.analyze(ctx, capture, request)
	if err != nil {
		a.say(ctx, analyzingErrorMessage)
		return "", err
	}
	a.say(ctx, analysis.Description)
	return analysis.Description, nil
}

// Describe is Process without any speech: useful for front-ends which reply in text.
func (a *AssistantService) Describe(ctx context.Context, request string) (*Analysis, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	capture, request, err := a.capture(ctx, request)
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, capture, request)
}

// Analyze optimizes an already captured image and describes it according to `request` (can be empty).
func (a *AssistantService) Analyze(ctx context.Context, capture *Capture, request string) (*Analysis, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.analyze(ctx, capture, request)
}

// History see API.History
func (a *AssistantService) History(ctx context.Context, limit int) ([]*Analysis, error) {
	if a.journal == nil {
		return nil, nil
	}
	return a.journal.Recent(ctx, limit)
}

func (a *AssistantService) capture(ctx context.Context, request string) (*Capture, string, error) {
	camera, request, err := a.imageSourceSelector.Select(request)
	if err != nil {
		return nil, "", err
	}
	capture, err := camera.Capture(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("capture from %s: %w", camera.Name(), err)
	}
	a.logger.Info("image captured", "captureID", capture.ID, "source", capture.Source, "bytes", len(capture.Data))
	a.save(ctx, capture)
	return capture, request, nil
}

func (a *AssistantService) save(ctx context.Context, capture *Capture) {
	if a.captureStore == nil {
		return
	}
	job := func() error {
		path, err := a.captureStore.Save(context.WithoutCancel(ctx), capture)
		if err != nil {
			return fmt.Errorf("save capture %s: %w", capture.ID, err)
		}
		a.logger.Info("image saved", "captureID", capture.ID, "path", path)
		return nil
	}
	if a.jobQueue != nil {
		a.jobQueue.Enqueue(job)
		return
	}
	if err := job(); err != nil {
		a.logger.Error("failed to save capture", err)
	}
}

func (a *AssistantService) analyze(ctx context.Context, capture *Capture, request string) (*Analysis, error) {
	if capture == nil {
		return nil, fmt.Errorf("%w: nil capture", ErrInvalidImage)
	}
	startTime := time.Now()
	optimized, err := OptimizeBytes(capture.Data, a.settings.Optimization)
	if err != nil {
		return nil, fmt.Errorf("optimize capture %s: %w", capture.ID, err)
	}
	reductionPercent := ReductionPercent(len(capture.Data), len(optimized))
	a.logger.Info(
		"image optimized",
		"optimizedKB", fmt.Sprintf("%.1f", float64(len(optimized))/1024),
		"reductionPercent", fmt.Sprintf("%.1f", reductionPercent),
	)
	category, prompt := SelectPrompt(request)
	if request != "" {
		a.logger.Info("user request", "request", request, "category", category.String())
	}
	description, err := a.describe(ctx, prompt, optimized)
	if err != nil {
		return nil, err
	}
	analysis := &Analysis{
		CaptureID:      capture.ID,
		CreatedAt:      time.Now(),
		Request:        request,
		Category:       category,
		Prompt:         prompt,
		Model:          a.visionModel.Name(),
		OriginalBytes:  len(capture.Data),
		OptimizedBytes: len(optimized),
		Description:    description,
		Elapsed:        time.Since(startTime),
	}
	if a.journal != nil {
		err = a.journal.Record(ctx, analysis)
		if err != nil {
			a.logger.Error("failed to record analysis", err, "captureID", capture.ID)
		}
	}
	return analysis, nil
}

func (a *AssistantService) describe(ctx context.Context, prompt string, image []byte) (string, error) {
	if a.settings.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.ModelTimeout)
		defer cancel()
	}
	description, err := a.visionModel.Describe(ctx, prompt, image, optimizedMIMEType)
	if err != nil {
		return "", fmt.Errorf("describe with %s: %w", a.visionModel.Name(), err)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrEmptyResponse
	}
	return description, nil
}

func (a *AssistantService) say(ctx context.Context, text string) {
	err := a.speaker.Speak(ctx, text)
	if err != nil {
		a.logger.Error("failed to speak", err)
	}
}

func sleep(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return true
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
