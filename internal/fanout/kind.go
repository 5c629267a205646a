package fanout

import (
	"fmt"
	"unicode/utf8"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the closed set of event kinds the pipeline distinguishes.
// Any type string that is not recognised maps to KindOther, which behaves
// like KindPost.
type Kind int

const (
	KindOther Kind = iota
	KindFollow
	KindPost
)

// Event type names as they appear on the wire and in storage.
const (
	TypeFollow = "follow"
	TypePost   = "post"
)

type audience int

const (
	// audienceTarget notifies the submission's target user.
	audienceTarget audience = iota
	// audienceFollowers notifies everyone following the actor.
	audienceFollowers
)

type kindSpec struct {
	preferenceKey string
	audience      audience
	render        func(ev *models.Event) string
}

var kindTable = map[Kind]kindSpec{
	KindFollow: {
		preferenceKey: "notifyFollows",
		audience:      audienceTarget,
		render: func(ev *models.Event) string {
			return fmt.Sprintf("User %d followed you", ev.ProducerID)
		},
	},
	KindPost: {
		preferenceKey: "notifyPosts",
		audience:      audienceFollowers,
		render:        renderActivity,
	},
	KindOther: {
		audience: audienceFollowers,
		render:   renderActivity,
	},
}

func renderActivity(ev *models.Event) string {
	return fmt.Sprintf("User %d created a %s: %s", ev.ProducerID, ev.Type, ev.Content)
}

// ParseKind maps an event type name to its Kind. Matching is exact.
func ParseKind(eventType string) Kind {
	switch eventType {
	case TypeFollow:
		return KindFollow
	case TypePost:
		return KindPost
	default:
		return KindOther
	}
}

func (k Kind) String() string {
	switch k {
	case KindFollow:
		return TypeFollow
	case KindPost:
		return TypePost
	default:
		return "other"
	}
}

func specFor(k Kind) kindSpec {
	if ks, ok := kindTable[k]; ok {
		return ks
	}
	return kindTable[KindOther]
}

// PreferenceKey returns the user preference consulted for eventType,
// e.g. "follow" -> "notifyFollows". Unknown types get notify<Type>s with
// only the first letter upper-cased: "blog post" -> "notifyBlog posts".
func PreferenceKey(eventType string) string {
	if key := specFor(ParseKind(eventType)).preferenceKey; key != "" {
		return key
	}
	_, n := utf8.DecodeRuneInString(eventType)
	first := cases.Title(language.Und).String(eventType[:n])
	return "notify" + first + eventType[n:] + "s"
}
