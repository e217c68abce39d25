package autofix

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/console"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
	"github.com/sketchforge/studio/backend/internal/infrastructure/monitoring"
	"github.com/sketchforge/studio/backend/internal/notify"
	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/vm"
	"github.com/sketchforge/studio/backend/internal/shared/id"
)

// Generator is the opaque AI collaborator. A generation attempt is never
// retried; failure is terminal for that attempt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest is the single outbound call shape.
type GenerateRequest struct {
	Prompt            string
	SystemInstruction string
	ResponseFormat    string
}

// ChatEscalator receives errors the controller gives up on. Fire-and-forget.
type ChatEscalator interface {
	SendErrorToChat(message string)
}

// Options are the controller's tunables. The cool-down and related-file bound
// deliberately come from configuration rather than constants.
type Options struct {
	// Cooldown suppresses reprocessing of the last-fixed message.
	Cooldown time.Duration
	// Debounce delays the confirmation prompt to coalesce error bursts.
	Debounce time.Duration
	// MaxRelatedFiles bounds the repair context.
	MaxRelatedFiles int
	// ConsoleTailLines bounds the console excerpt in the repair context.
	ConsoleTailLines int
	// MinPriority is the classification floor for AI-assisted fixes.
	MinPriority int
	// MaxFixSourceBytes bounds accepted AI responses.
	MaxFixSourceBytes int
}

// DefaultOptions mirror the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Cooldown:          10 * time.Second,
		Debounce:          1500 * time.Millisecond,
		MaxRelatedFiles:   4,
		ConsoleTailLines:  10,
		MinPriority:       3,
		MaxFixSourceBytes: 256 * 1024,
	}
}

// pendingFix is the single awaiting-confirmation slot.
type pendingFix struct {
	message        string
	classification Classification
	prompted       bool
	running        bool
	timer          *time.Timer
}

// Controller is the auto-fix state machine. All externally observable side
// effects go through the project store, the console store's fix flags, and
// the notification center; the only other state is the last-fixed marker and
// the single pending slot.
type Controller struct {
	opts          Options
	files         *project.Store
	console       *console.Store
	notifications *notify.Center
	ai            Generator
	chat          ChatEscalator
	validator     *vm.Validator
	logger        *logging.Logger
	metrics       *monitoring.Metrics

	mu          sync.Mutex
	pending     *pendingFix
	lastFixed   string
	lastFixedAt time.Time
}

// NewController wires the state machine to its collaborators.
func NewController(opts Options, files *project.Store, consoleStore *console.Store, notifications *notify.Center, generator Generator, chat ChatEscalator, logger *logging.Logger) *Controller {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultOptions().Cooldown
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultOptions().Debounce
	}
	if opts.MaxRelatedFiles <= 0 {
		opts.MaxRelatedFiles = DefaultOptions().MaxRelatedFiles
	}
	if opts.ConsoleTailLines <= 0 {
		opts.ConsoleTailLines = DefaultOptions().ConsoleTailLines
	}
	if opts.MinPriority <= 0 {
		opts.MinPriority = DefaultOptions().MinPriority
	}

	return &Controller{
		opts:          opts,
		files:         files,
		console:       consoleStore,
		notifications: notifications,
		ai:            generator,
		chat:          chat,
		validator:     vm.New(vm.Config{MaxSourceBytes: opts.MaxFixSourceBytes}),
		logger:        logger,
	}
}

// WithMetrics adds metrics tracking to the controller.
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// HandleError runs the Detected state for one error occurrence. Safe to call
// from the websocket read loop; transitions are guarded by the single pending
// slot and the last-fixed marker, not by holding a lock across the AI call.
func (c *Controller) HandleError(message string, taggedIgnorable bool) {
	classification := Classify(message)
	if c.metrics != nil {
		c.metrics.ErrorsClassified.WithLabelValues(string(classification.Category)).Inc()
	}
	if taggedIgnorable || classification.Ignorable {
		return
	}

	c.mu.Lock()
	if message == c.lastFixed && time.Since(c.lastFixedAt) < c.opts.Cooldown {
		// The fix itself (or its side effects) re-triggered the same error
		// before the sandbox reflected the change.
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	snapshot, err := c.files.Snapshot()
	if err != nil {
		return
	}

	if result := TryDeterministicFix(snapshot, message); result != nil && result.Success {
		c.applyFix(message, result)
		return
	}

	if !classification.Fixable || classification.Priority < c.opts.MinPriority {
		return
	}

	c.schedulePrompt(message, classification)
}

// schedulePrompt debounces the confirmation UI. While the timer is ticking a
// newer qualifying error replaces the candidate; once prompted, later errors
// are logged but never open a second prompt.
func (c *Controller) schedulePrompt(message string, classification Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		if c.pending.prompted {
			return
		}
		c.pending.timer.Stop()
	}

	pending := &pendingFix{message: message, classification: classification}
	pending.timer = time.AfterFunc(c.opts.Debounce, func() { c.firePrompt(pending) })
	c.pending = pending
}

func (c *Controller) firePrompt(pending *pendingFix) {
	c.mu.Lock()
	if c.pending != pending {
		c.mu.Unlock()
		return
	}
	pending.prompted = true
	c.mu.Unlock()

	c.console.MarkFixing(pending.message)
	c.notifications.Prompt(pending.message)
	if c.metrics != nil {
		c.metrics.FixPrompts.Inc()
	}
}

// Pending returns the error message awaiting confirmation, if any.
func (c *Controller) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil || !c.pending.prompted {
		return "", false
	}
	return c.pending.message, true
}

// Confirm runs the AIFixRunning state for the pending error. The AI call is
// the only network-bound await; once started it runs to completion, and the
// result is applied against the file map as it exists at apply time.
func (c *Controller) Confirm(ctx context.Context) FixResult {
	c.mu.Lock()
	if c.pending == nil || !c.pending.prompted || c.pending.running {
		c.mu.Unlock()
		return FixResult{Error: "no fix awaiting confirmation"}
	}
	pending := c.pending
	pending.running = true
	c.mu.Unlock()

	c.notifications.DismissPrompts()
	result := c.runAIFix(ctx, pending.message, pending.classification)

	c.mu.Lock()
	if c.pending == pending {
		c.pending = nil
	}
	c.mu.Unlock()

	if result.Success {
		c.applyFix(pending.message, &result)
	} else {
		c.escalate(pending.message, result.Error)
	}
	return result
}

// Decline clears the pending slot without running anything.
func (c *Controller) Decline() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if pending != nil {
		if pending.timer != nil {
			pending.timer.Stop()
		}
		c.notifications.DismissPrompts()
	}
}

// SendToChat hands an error to the chat collaborator.
func (c *Controller) SendToChat(message string) {
	if c.chat != nil {
		c.chat.SendErrorToChat(message)
	}
}

func (c *Controller) runAIFix(ctx context.Context, message string, classification Classification) FixResult {
	fixID := id.NewFixID()

	// Target inference and context assembly read a fresh snapshot; the one
	// the error was detected against may already be stale.
	snapshot, err := c.files.Snapshot()
	if err != nil {
		return FixResult{ID: fixID, WasAINeeded: true, Error: err.Error()}
	}

	target := c.inferTarget(snapshot, message)
	if target == "" {
		return FixResult{ID: fixID, WasAINeeded: true, Error: "could not infer a target file"}
	}

	repairCtx, err := BuildRepairContext(snapshot, target, message, classification,
		c.console.Tail(c.opts.ConsoleTailLines), c.opts.MaxRelatedFiles)
	if err != nil {
		return FixResult{ID: fixID, WasAINeeded: true, TargetFile: target, Error: err.Error()}
	}

	response, err := c.ai.Generate(ctx, GenerateRequest{
		Prompt: repairCtx.BuildPrompt(),
		SystemInstruction: "You repair broken files in a generated web project. " +
			"Always answer with the complete corrected file source and nothing else.",
		ResponseFormat: "text",
	})
	if err != nil {
		return FixResult{ID: fixID, WasAINeeded: true, TargetFile: target, Error: fmt.Sprintf("generation failed: %v", err)}
	}

	code := CleanResponse(response)
	if err := c.validator.ValidateModule(target, code); err != nil {
		return FixResult{ID: fixID, WasAINeeded: true, TargetFile: target, Error: fmt.Sprintf("rejected AI response: %v", err)}
	}

	return FixResult{
		ID:          fixID,
		Success:     true,
		WasAINeeded: true,
		TargetFile:  target,
		NewCode:     code,
		FixType:     "ai",
		Description: "AI repair of " + target,
	}
}

// inferTarget picks the file a fix should touch: the importer for
// bare-specifier errors, the stack-trace file otherwise, the entry file as a
// last resort.
func (c *Controller) inferTarget(snapshot project.Snapshot, message string) string {
	if match := bareSpecifierRe.FindStringSubmatch(message); match != nil {
		if importer, ok := findReferencingFile(snapshot, match[1]); ok {
			return importer
		}
	}
	if loc := ParseStackLocation(snapshot, message); loc.File != "" {
		return loc.File
	}
	return snapshot.EntryFile()
}

// applyFix writes the repaired file, marks the log entry, sets the last-fixed
// marker, and posts the transient success toast.
func (c *Controller) applyFix(message string, result *FixResult) {
	if _, err := c.files.Write(result.TargetFile, result.NewCode); err != nil {
		c.logger.Error("Failed to write fix", zap.String("file", result.TargetFile), zap.Error(err))
		c.escalate(message, err.Error())
		return
	}

	c.mu.Lock()
	c.lastFixed = message
	c.lastFixedAt = time.Now()
	pending := c.pending
	if pending != nil && !pending.prompted && pending.message == message {
		// A deterministic fix landed before the debounce fired.
		pending.timer.Stop()
		c.pending = nil
	}
	c.mu.Unlock()

	c.console.MarkFixed(message)
	c.notifications.Success("Fixed: " + result.Description)
	if c.metrics != nil {
		c.metrics.FixesApplied.WithLabelValues(result.FixType).Inc()
	}
	c.logger.Info("Fix applied",
		zap.String("file", result.TargetFile),
		zap.String("fix_type", result.FixType),
	)
}

// escalate surfaces a persistent card instead of retrying. The only retry
// path is the user re-confirming after escalation, which starts fresh.
func (c *Controller) escalate(message, reason string) {
	c.notifications.Escalation("Automatic fix failed: "+reason, message)
	if c.metrics != nil {
		c.metrics.FixesEscalated.Inc()
	}
	c.logger.Warn("Fix escalated", zap.String("reason", reason))
}
