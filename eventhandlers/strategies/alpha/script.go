package alpha

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/signals"
	"github.com/replaytrader/replaytrader/log"
)

var scriptModules = []string{"math", "text", "times", "enum"}

// NewScript compiles a tengo alpha script. The collection may be nil, in
// which case closes is always an empty map
func NewScript(name string, src []byte, c *signals.Collection, timeout time.Duration) (*Script, error) {
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(scriptModules...))
	for k, v := range map[string]any{
		"assets": []any{},
		"now":    time.Time{},
		"closes": map[string]any{},
	} {
		if err := s.Add(k, v); err != nil {
			return nil, err
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: script %v: %w", common.ErrConfiguration, name, err)
	}
	return &Script{
		name:       name,
		compiled:   compiled,
		collection: c,
		timeout:    timeout,
	}, nil
}

func newScript(custom map[string]any, c *signals.Collection) (*Script, error) {
	var (
		name    = ScriptName
		src     []byte
		timeout time.Duration
		lookbacks []int
	)
	for k, v := range custom {
		switch k {
		case scriptKey:
			path, ok := v.(string)
			if !ok || path == "" {
				return nil, fmt.Errorf("%w: %w %v must be a file path", common.ErrConfiguration, ErrInvalidCustomSettings, k)
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
			}
			src = b
			name = filepath.Base(path)
		case sourceKey:
			code, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %w %v must be a string", common.ErrConfiguration, ErrInvalidCustomSettings, k)
			}
			src = []byte(code)
		case timeoutKey:
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %w %v must be a duration string", common.ErrConfiguration, ErrInvalidCustomSettings, k)
			}
			d, err := time.ParseDuration(str)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
			}
			timeout = d
		case lookbackKey:
			l, err := positiveInt(k, v)
			if err != nil {
				return nil, err
			}
			lookbacks = append(lookbacks, l)
		default:
			return nil, unrecognised(k, v)
		}
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: %w one of %v or %v is required", common.ErrConfiguration, ErrInvalidCustomSettings, scriptKey, sourceKey)
	}
	for _, l := range lookbacks {
		if c == nil {
			return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errSignalsRequired)
		}
		if err := c.Require(l); err != nil {
			return nil, err
		}
	}
	return NewScript(name, src, c, timeout)
}

// Name returns the model name
func (s *Script) Name() string { return ScriptName }

// Description describes the model
func (s *Script) Description() string {
	return "User supplied tengo script " + s.name
}

// Signals runs the script once with the current assets, time and buffered
// closes. Assets missing from the script output receive zero
func (s *Script) Signals(t time.Time, assets []string) (map[string]float64, error) {
	sorted := append([]string(nil), assets...)
	sort.Strings(sorted)
	in := make([]any, len(sorted))
	closes := make(map[string]any, len(sorted))
	for i, a := range sorted {
		in[i] = a
		if s.collection == nil {
			continue
		}
		buf := s.collection.Closes(a)
		series := make([]any, len(buf))
		for j := range buf {
			series[j] = buf[j]
		}
		closes[a] = series
	}
	for k, v := range map[string]any{"assets": in, "now": t, "closes": closes} {
		if err := s.compiled.Set(k, v); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("script %v: %w", s.name, err)
	}

	v := s.compiled.Get(signalsKey)
	if v == nil || v.IsUndefined() {
		return nil, fmt.Errorf("script %v: %w", s.name, errScriptOutput)
	}
	raw := v.Map()
	if raw == nil {
		return nil, fmt.Errorf("script %v: %w", s.name, errScriptOutput)
	}
	out := make(map[string]float64, len(sorted))
	for _, a := range sorted {
		out[a] = 0
	}
	for a, val := range raw {
		f, ok := toFloat(val)
		if !ok {
			return nil, fmt.Errorf("script %v: %w %v: %v", s.name, errScriptSignalNotFloat, a, val)
		}
		if _, ok := out[a]; !ok {
			log.Warnf(log.Strategy, "script %v signalled %v which is not in the universe at %v, ignored", s.name, a, t)
			continue
		}
		out[a] = f
	}
	return out, nil
}
