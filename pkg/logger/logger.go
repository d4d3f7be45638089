package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type LogLevel string

const (
	DEBUG LogLevel = "debug"
	INFO  LogLevel = "info"
	WARN  LogLevel = "warn"
	ERROR LogLevel = "error"
)

var levelRank = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

type Logger struct {
	level      LogLevel
	jsonFormat bool
	out        io.Writer
	context    map[string]string
	mu         *sync.Mutex
}

var defaultLogger = &Logger{
	level:      INFO,
	jsonFormat: false,
	out:        os.Stdout,
	context:    map[string]string{},
	mu:         &sync.Mutex{},
}

// Init configures the process-wide logger. A nil writer discards output
// (used by tests).
func Init(level LogLevel, jsonFormat bool, out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	normalized := LogLevel(strings.ToLower(string(level)))
	if _, ok := levelRank[normalized]; !ok {
		normalized = INFO
	}
	defaultLogger = &Logger{
		level:      normalized,
		jsonFormat: jsonFormat,
		out:        out,
		context:    map[string]string{},
		mu:         &sync.Mutex{},
	}
}

func GetLogger() *Logger {
	return defaultLogger
}

// WithContext returns a logger that attaches the given field to every entry.
func (l *Logger) WithContext(key, value string) *Logger {
	ctx := make(map[string]string, len(l.context)+1)
	for k, v := range l.context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Logger{
		level:      l.level,
		jsonFormat: l.jsonFormat,
		out:        l.out,
		context:    ctx,
		mu:         l.mu,
	}
}

func (l *Logger) Debug(event string, kv ...interface{}) { l.log(DEBUG, event, kv...) }
func (l *Logger) Info(event string, kv ...interface{})  { l.log(INFO, event, kv...) }
func (l *Logger) Warn(event string, kv ...interface{})  { l.log(WARN, event, kv...) }
func (l *Logger) Error(event string, kv ...interface{}) { l.log(ERROR, event, kv...) }

func (l *Logger) log(level LogLevel, event string, kv ...interface{}) {
	if levelRank[level] < levelRank[l.level] {
		return
	}

	ts := time.Now().UTC().Format(time.RFC3339)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.jsonFormat {
		entry := map[string]interface{}{
			"ts":    ts,
			"level": string(level),
			"event": event,
		}
		for k, v := range l.context {
			entry[k] = v
		}
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				key = fmt.Sprint(kv[i])
			}
			entry[key] = kv[i+1]
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	var b strings.Builder
	b.WriteString(ts)
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(string(level)))
	b.WriteString("] ")
	b.WriteString(event)
	for k, v := range l.context {
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}
