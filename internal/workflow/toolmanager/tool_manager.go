package toolmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/workflow"
)

// Registration binds a tool to the scope its calls run in.
type Registration struct {
	Tool  Tool
	Scope tool.Scope
}

// Option configures a ToolManager.
type Option func(*ToolManager)

// WithApprovalGate sets the gate consulted for calls that request approval.
// Without a gate such calls run unasked.
func WithApprovalGate(g approvalGate) Option {
	return func(m *ToolManager) { m.gate = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *ToolManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics sets the dispatch metrics sink.
func WithMetrics(mt toolMetrics) Option {
	return func(m *ToolManager) { m.metrics = mt }
}

type ToolManager struct {
	registry []Registration
	gate     approvalGate
	logger   *slog.Logger
	metrics  toolMetrics
}

// NewToolManager builds the registry. Every tool kind must be registered
// exactly once.
func NewToolManager(regs []Registration, opts ...Option) (*ToolManager, error) {
	m := &ToolManager{
		registry: make([]Registration, len(tool.Kinds())),
		logger:   slog.New(slog.DiscardHandler),
	}

	seen := make(map[tool.Kind]bool, len(regs))
	for _, r := range regs {
		if r.Tool == nil {
			return nil, errors.New("nil tool in registration")
		}
		k := r.Tool.Kind()
		if !k.Valid() {
			return nil, fmt.Errorf("tool declares invalid kind %d", int(k))
		}
		if seen[k] {
			return nil, fmt.Errorf("tool %s registered twice", k)
		}
		if name := r.Tool.Declaration().Name; name != k.String() {
			return nil, fmt.Errorf("tool %s declares name %q", k, name)
		}
		if r.Scope.Root() == "" {
			return nil, fmt.Errorf("tool %s has no scope", k)
		}
		seen[k] = true
		m.registry[k] = r
	}
	for _, k := range tool.Kinds() {
		if !seen[k] {
			return nil, fmt.Errorf("no tool registered for %s", k)
		}
	}

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Declarations returns all tool schemas for the LLM, in kind order.
func (m *ToolManager) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, r := range m.registry {
		decls = append(decls, r.Tool.Declaration())
	}
	return decls
}

// Names returns the registered tool names, in kind order.
func (m *ToolManager) Names() []string {
	names := make([]string, 0, len(m.registry))
	for _, r := range m.registry {
		names = append(names, r.Tool.Kind().String())
	}
	return names
}

// Execute dispatches one tool call. Unknown tools, bad arguments and denied
// approvals come back as error results; the error return is reserved for
// cancellation.
func (m *ToolManager) Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.ToolResult, error) {
	start := time.Now()
	result := provider.ToolResult{CallID: tc.ID, Name: tc.Name}

	fail := func(outcome string, err error) (provider.ToolResult, error) {
		m.logger.Warn("tool call rejected", "tool", tc.Name, "outcome", outcome, "error", err)
		m.observe(tc.Name, outcome, start)
		emit(events, workflow.ToolEndEvent{
			ToolName: tc.Name,
			Display:  tool.StringDisplay(firstLine(err.Error())),
			IsError:  true,
		})
		result.Content = err.Error()
		result.IsError = true
		return result, nil
	}

	kind, ok := tool.KindByName(tc.Name)
	if !ok {
		emit(events, workflow.ToolStartEvent{ToolName: tc.Name, Args: tc.Args})
		return fail("unknown_tool", &UnknownToolError{Name: tc.Name, Available: m.Names()})
	}
	reg := m.registry[kind]

	req := reg.Tool.Input()
	if err := bind(tc.Args, req); err != nil {
		emit(events, workflow.ToolStartEvent{ToolName: tc.Name, Args: tc.Args})
		return fail("bad_arguments", m.badArguments(reg.Tool, err))
	}
	if v, ok := req.(validator); ok {
		if err := v.Validate(); err != nil {
			emit(events, workflow.ToolStartEvent{ToolName: tc.Name, Args: tc.Args})
			return fail("bad_arguments", m.badArguments(reg.Tool, err))
		}
	}

	display := ""
	if s, ok := req.(fmt.Stringer); ok {
		display = s.String()
	}
	emit(events, workflow.ToolStartEvent{ToolName: tc.Name, RequestDisplay: display, Args: tc.Args})
	m.logger.Debug("tool call", "tool", tc.Name, "args", tc.Args, "root", reg.Scope.Root())

	if ar, ok := reg.Tool.(approvalRequester); ok && m.gate != nil {
		if approval, needed := ar.ApprovalFor(reg.Scope, req); needed {
			approved, err := m.gate.Approve(ctx, approval)
			if ctxErr := ctx.Err(); ctxErr != nil {
				m.observe(tc.Name, "cancelled", start)
				emit(events, workflow.ToolEndEvent{ToolName: tc.Name, Display: tool.StringDisplay("Cancelled"), IsError: true})
				return provider.ToolResult{}, ctxErr
			}
			if err != nil || !approved {
				return fail("denied", &ApprovalDeniedError{Tool: tc.Name, Summary: approval.Summary, Cause: err})
			}
		}
	}

	res, err := reg.Tool.Execute(ctx, reg.Scope, req)
	if err != nil {
		m.observe(tc.Name, "cancelled", start)
		emit(events, workflow.ToolEndEvent{ToolName: tc.Name, Display: tool.StringDisplay("Cancelled"), IsError: true})
		return provider.ToolResult{}, err
	}
	if err := ctx.Err(); err != nil {
		m.observe(tc.Name, "cancelled", start)
		return provider.ToolResult{}, err
	}

	content := res.LLMContent()
	toolErr := strings.HasPrefix(content, "Error:")
	outcome := "ok"
	if toolErr {
		outcome = "tool_error"
	}
	m.observe(tc.Name, outcome, start)
	m.logger.Debug("tool result", "tool", tc.Name, "outcome", outcome, "chars", len(content), "elapsed", time.Since(start))
	emit(events, workflow.ToolEndEvent{ToolName: tc.Name, Display: res.Display(), IsError: toolErr})

	result.Content = content
	return result, nil
}

func (m *ToolManager) badArguments(t Tool, cause error) error {
	schema, _ := json.MarshalIndent(t.Declaration().Parameters, "", "  ")
	return &BadArgumentsError{Tool: t.Kind().String(), Cause: cause, Schema: string(schema)}
}

func (m *ToolManager) observe(name, outcome string, start time.Time) {
	if m.metrics != nil {
		m.metrics.ObserveToolCall(name, outcome, time.Since(start))
	}
}

// bind decodes model arguments into the request struct by json tag.
// Unknown keys are rejected. JSON numbers bind to integer fields only when
// they are whole.
func bind(args map[string]any, req any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		DecodeHook:  wholeNumberHook,
		Result:      req,
	})
	if err != nil {
		return err
	}
	if args == nil {
		args = map[string]any{}
	}
	return decoder.Decode(args)
}

func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected an integer, got %v", f)
		}
	}
	return data, nil
}

func emit(events chan<- workflow.Event, ev workflow.Event) {
	if events != nil {
		events <- ev
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
