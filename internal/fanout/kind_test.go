package fanout

import (
	"testing"

	"github.com/anonto42/nano-midea/notifier/internal/models"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
	}{
		{"follow", KindFollow},
		{"post", KindPost},
		{"comment", KindOther},
		{"Follow", KindOther},
		{"", KindOther},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPreferenceKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"follow", "notifyFollows"},
		{"post", "notifyPosts"},
		{"comment", "notifyComments"},
		{"like", "notifyLikes"},
		{"videoUpload", "notifyVideoUploads"},
		{"blog post", "notifyBlog posts"},
		{"blog-post", "notifyBlog-posts"},
		{"éclair", "notifyÉclairs"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := PreferenceKey(tt.in); got != tt.want {
				t.Errorf("PreferenceKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewNotification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   models.Event
		want string
	}{
		{"follow", models.Event{ProducerID: 1, Type: "follow", TargetID: 2}, "User 1 followed you"},
		{"post", models.Event{ProducerID: 3, Type: "post", Content: "hello"}, "User 3 created a post: hello"},
		{"other", models.Event{ProducerID: 4, Type: "photo", Content: "beach"}, "User 4 created a photo: beach"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.ev
			n := NewNotification(&ev, 9)
			if n.Content != tt.want {
				t.Errorf("Content = %q, want %q", n.Content, tt.want)
			}
			if n.ReceiverID != 9 || n.ActorID != ev.ProducerID || n.Type != ev.Type || n.IsRead {
				t.Errorf("unexpected notification %+v", n)
			}

			// Content is bound at creation time.
			ev.Content = "changed"
			if n.Content != tt.want {
				t.Errorf("Content changed after event mutation: %q", n.Content)
			}
		})
	}
}

func TestEventSubmissionValidate(t *testing.T) {
	t.Parallel()

	if err := (EventSubmission{Type: "post", ActorID: 1}).Validate(); err != nil {
		t.Errorf("valid submission rejected: %v", err)
	}
	for _, sub := range []EventSubmission{
		{ActorID: 1},
		{Type: "post"},
	} {
		if err := sub.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", sub)
		}
	}
}

func TestToEventDropsTargetForNonFollow(t *testing.T) {
	t.Parallel()

	ev := EventSubmission{Type: "post", ActorID: 1, TargetID: 5, Content: "x"}.toEvent()
	if ev.TargetID != 0 {
		t.Errorf("TargetID = %d, want 0 for post", ev.TargetID)
	}
	ev = EventSubmission{Type: "follow", ActorID: 1, TargetID: 5}.toEvent()
	if ev.TargetID != 5 {
		t.Errorf("TargetID = %d, want 5 for follow", ev.TargetID)
	}
}
