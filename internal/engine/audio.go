package engine

// AudioSink - внешний проигрыватель звуков. Сессия только называет звук.
type AudioSink interface {
	Trigger(name string)
}

// AudioRecorder запоминает все триггеры. Годится для headless-прогонов и тестов.
type AudioRecorder struct {
	Triggered []string
}

func (r *AudioRecorder) Trigger(name string) {
	r.Triggered = append(r.Triggered, name)
}

// Count - сколько раз звучал звук.
func (r *AudioRecorder) Count(name string) int {
	n := 0
	for _, s := range r.Triggered {
		if s == name {
			n++
		}
	}
	return n
}

type nopAudio struct{}

func (nopAudio) Trigger(string) {}
