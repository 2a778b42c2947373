package capture

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"
)

var (
	// ErrListenTimeout is returned when no speech started within the listen timeout
	ErrListenTimeout = errors.New("listening timed out while waiting for phrase to start")
	// ErrNoSpeech is returned when the input ended before any speech was heard
	ErrNoSpeech = errors.New("audio input ended before speech was detected")
)

// detector turns a raw s16le mono stream into one utterance using an energy threshold
type detector struct {
	threshold       float64
	floor           float64
	dynamic         bool
	damping         float64
	ratio           float64
	frameBytes      int
	secondsPerFrame float64

	pauseFrames     int
	phraseFrames    int
	preRollFrames   int
	timeoutFrames   int
	phraseLimit     int
	calibrateFrames int
}

func newDetector(cfg Config) *detector {
	spf := float64(cfg.FrameSize) / float64(cfg.SampleRate)
	frames := func(d time.Duration) int {
		if d <= 0 {
			return 0
		}
		return int(math.Ceil(d.Seconds() / spf))
	}
	return &detector{
		threshold:       cfg.EnergyThreshold,
		floor:           cfg.MinEnergyThreshold,
		dynamic:         cfg.DynamicEnergy,
		damping:         cfg.DynamicDamping,
		ratio:           cfg.DynamicRatio,
		frameBytes:      cfg.FrameSize * 2,
		secondsPerFrame: spf,
		pauseFrames:     frames(cfg.PauseThreshold),
		phraseFrames:    frames(cfg.MinPhrase),
		preRollFrames:   frames(cfg.PreRoll),
		timeoutFrames:   frames(cfg.ListenTimeout),
		phraseLimit:     frames(cfg.PhraseTimeLimit),
		calibrateFrames: frames(cfg.CalibrationDuration),
	}
}

// rms returns the root mean square of 16-bit little-endian samples
func rms(frame []byte) float64 {
	n := len(frame) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(frame[i*2:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}

// adjust moves the threshold towards ratio times the observed energy
func (d *detector) adjust(energy float64) {
	damping := math.Pow(d.damping, d.secondsPerFrame)
	target := energy * d.ratio
	d.threshold = d.threshold*damping + target*(1-damping)
	if d.threshold < d.floor {
		d.threshold = d.floor
	}
}

// readFrame reads one frame; a short final frame is returned with io.EOF
func (d *detector) readFrame(r io.Reader) ([]byte, error) {
	frame := make([]byte, d.frameBytes)
	n, err := io.ReadFull(r, frame)
	switch {
	case err == nil:
		return frame, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return frame[:n-n%2], io.EOF
	default:
		return nil, err
	}
}

// calibrate listens to ambient noise and sets the threshold from it
func (d *detector) calibrate(r io.Reader) error {
	for i := 0; i < d.calibrateFrames; i++ {
		frame, err := d.readFrame(r)
		if len(frame) > 0 {
			d.adjust(rms(frame))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// listen blocks until one phrase was heard and returns its PCM, including pre-roll
func (d *detector) listen(r io.Reader) ([]byte, error) {
	for {
		preRoll, err := d.waitForSpeech(r)
		if err != nil {
			return nil, err
		}

		phrase, spoken, eof, err := d.recordPhrase(r, preRoll)
		if err != nil {
			return nil, err
		}
		if spoken >= d.phraseFrames || eof {
			return phrase, nil
		}
		// too short, treat as noise and keep waiting
	}
}

// waitForSpeech consumes frames until one exceeds the threshold.
// The returned frames are the pre-roll ending with the triggering frame.
func (d *detector) waitForSpeech(r io.Reader) ([][]byte, error) {
	var preRoll [][]byte
	waited := 0
	for {
		if d.timeoutFrames > 0 && waited > d.timeoutFrames {
			return nil, ErrListenTimeout
		}

		frame, err := d.readFrame(r)
		if len(frame) == 0 {
			if err == nil || errors.Is(err, io.EOF) {
				return nil, ErrNoSpeech
			}
			return nil, err
		}
		waited++

		preRoll = append(preRoll, frame)
		if len(preRoll) > d.preRollFrames+1 {
			preRoll = preRoll[1:]
		}

		energy := rms(frame)
		if energy > d.threshold {
			return preRoll, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoSpeech
			}
			return nil, err
		}

		if d.dynamic {
			d.adjust(energy)
		}
	}
}

// recordPhrase appends frames until the pause threshold of silence or the phrase limit
func (d *detector) recordPhrase(r io.Reader, frames [][]byte) (phrase []byte, spoken int, eof bool, err error) {
	var buf []byte
	for _, f := range frames {
		buf = append(buf, f...)
	}

	spoken = 1
	pause := 0
	total := len(frames)
	for {
		if d.phraseLimit > 0 && total >= d.phraseLimit+d.preRollFrames {
			break
		}

		frame, readErr := d.readFrame(r)
		if len(frame) > 0 {
			buf = append(buf, frame...)
			total++
			if rms(frame) > d.threshold {
				pause = 0
				spoken++
			} else {
				pause++
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				eof = true
				break
			}
			return nil, 0, false, readErr
		}
		if pause > d.pauseFrames {
			break
		}
	}

	return buf, spoken, eof, nil
}
