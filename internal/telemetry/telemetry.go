package telemetry

import (
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

const fallbackEncoding = "cl100k_base"

type turnSample struct {
	requestID string
	model     string
	prompt    []models.Message
	reply     string
	duration  time.Duration
}

// Recorder emits one metrics record per completed turn: token counts,
// latency, throughput. Emission is fire-and-forget — RecordTurn never blocks
// and a full buffer drops the sample rather than touching the reply path.
type Recorder struct {
	ch        chan turnSample
	done      chan struct{}
	closeOnce sync.Once
}

func NewRecorder(buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 64
	}
	r := &Recorder{
		ch:   make(chan turnSample, buffer),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// RecordTurn queues a completed turn for emission. Safe on a nil Recorder.
func (r *Recorder) RecordTurn(requestID, model string, prompt []models.Message, reply string, duration time.Duration) {
	if r == nil {
		return
	}
	sample := turnSample{
		requestID: requestID,
		model:     model,
		prompt:    prompt,
		reply:     reply,
		duration:  duration,
	}
	select {
	case r.ch <- sample:
	default:
		log.Debug().Str("request_id", requestID).Msg("telemetry buffer full, dropping sample")
	}
}

// Close stops the consumer after draining queued samples.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		close(r.ch)
		<-r.done
	})
}

func (r *Recorder) run() {
	defer close(r.done)
	for sample := range r.ch {
		r.emit(sample)
	}
}

func (r *Recorder) emit(sample turnSample) {
	promptTokens := 0
	for _, m := range sample.prompt {
		promptTokens += countTokens(sample.model, m.Content)
	}
	completionTokens := countTokens(sample.model, sample.reply)

	outputTokPerSec := 0.0
	if secs := sample.duration.Seconds(); secs > 0 {
		outputTokPerSec = float64(completionTokens) / secs
	}

	log.Info().
		Str("request_id", sample.requestID).
		Str("model", sample.model).
		Int("num_prompt_tokens", promptTokens).
		Int("num_generated_tokens", completionTokens).
		Float64("generation_time_sec", sample.duration.Seconds()).
		Float64("output_tok_per_sec", outputTokPerSec).
		Msg("turn completed")
}

func countTokens(model, text string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			// Crude fallback, close enough for throughput metrics.
			return len(text) / 4
		}
	}
	return len(enc.Encode(text, nil, nil))
}
