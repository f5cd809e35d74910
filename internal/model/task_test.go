package model

import "testing"

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{
			name: "resolved title wins",
			task: Task{Title: "Never Gonna Give You Up", InputReference: "https://youtu.be/abc"},
			want: "Never Gonna Give You Up",
		},
		{
			name: "whitespace title falls through",
			task: Task{Title: "   ", InputReference: "https://youtu.be/abc"},
			want: "https://youtu.be/abc",
		},
		{
			name: "input reference when no title",
			task: Task{InputReference: "https://youtu.be/abc"},
			want: "https://youtu.be/abc",
		},
		{
			name: "fallback literal",
			task: Task{},
			want: FallbackTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLifecyclePredicates(t *testing.T) {
	active := []LifecycleStatus{LifecycleSubmitting, LifecyclePolling, LifecycleCancelling}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("%v should be active", s)
		}
		if s.Finished() {
			t.Errorf("%v should not be finished", s)
		}
	}

	finished := []LifecycleStatus{LifecycleCompleted, LifecycleErrored}
	for _, s := range finished {
		if !s.Finished() {
			t.Errorf("%v should be finished", s)
		}
		if s.Active() {
			t.Errorf("%v should not be active", s)
		}
	}

	if LifecycleIdle.Active() || LifecycleIdle.Finished() {
		t.Error("idle is neither active nor finished")
	}
}

func TestEnumValidity(t *testing.T) {
	for _, c := range AudioCodecs() {
		if !c.Valid() {
			t.Errorf("codec %v should be valid", c)
		}
	}
	if AudioCodec("flac").Valid() {
		t.Error("flac is not a supported codec")
	}

	for _, q := range VideoQualities() {
		if !q.Valid() {
			t.Errorf("quality %v should be valid", q)
		}
	}
	if VideoQuality("8k").Valid() {
		t.Error("8k is not a supported tier")
	}
}
