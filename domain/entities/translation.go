package entities

import "time"

// TranslationRequest is created when the user triggers a run with a valid target
type TranslationRequest struct {
	RunID       string    `json:"run_id"`
	Target      Language  `json:"target"`
	RequestedAt time.Time `json:"requested_at"`
}

// AudioSample is one captured utterance as raw mono PCM
type AudioSample struct {
	Data       []byte `json:"-"`
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"` // "LINEAR16"
}

// Duration returns the playback length of a 16-bit mono sample
func (a AudioSample) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	samples := len(a.Data) / 2
	return time.Duration(samples) * time.Second / time.Duration(a.SampleRate)
}

// RecognizedUtterance is the text produced by speech recognition
type RecognizedUtterance struct {
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code,omitempty"`
	Confidence   float32 `json:"confidence,omitempty"`
}

// TranslatedText is the translation shown and spoken to the user.
// Failed is set when Text carries a translation error message instead.
type TranslatedText struct {
	Text       string `json:"text"`
	TargetCode string `json:"target_code"`
	Failed     bool   `json:"failed,omitempty"`
}

// SynthesizedAudio is the temporary file holding speech for one playback
type SynthesizedAudio struct {
	Path string `json:"path"`
}
