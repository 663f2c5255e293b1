package drafting

import "strings"

// Identity is the candidate data the channels weave into drafts
type Identity struct {
	CandidateName      string
	Signature          string
	EmailPlaceholder   string
	MessagePlaceholder string
}

// SignatureBlock returns the block appended to emails. Without an explicit
// signature it falls back to a closing built from the candidate name, and
// to "" when neither is set.
func (id Identity) SignatureBlock() string {
	if sig := strings.TrimSpace(id.Signature); sig != "" {
		return sig
	}
	if name := strings.TrimSpace(id.CandidateName); name != "" {
		return "Best regards,\n" + name
	}
	return ""
}

const (
	DefaultEmailPlaceholder   = "hiring@company.com"
	DefaultMessagePlaceholder = "Hiring Manager – LinkedIn"

	EmailWordLimit       = 220
	MessageWordLimit     = 150
	CoverLetterWordLimit = 350
)

// Channel describes how one content type is drafted and validated.
type Channel struct {
	Type        ContentType
	Prompt      string
	WordLimit   int
	Placeholder string

	// Addressed channels carry a recipient and subject
	Addressed         bool
	AppendSignature   bool
	ForbidAttachments bool
	ForbidBullets     bool
	ForbidSignature   bool
}

// EmailChannel is a cold email: recipient, subject and signed body
func EmailChannel(id Identity) Channel {
	return Channel{
		Type:            Email,
		Prompt:          "email",
		WordLimit:       EmailWordLimit,
		Placeholder:     orDefault(id.EmailPlaceholder, DefaultEmailPlaceholder),
		Addressed:       true,
		AppendSignature: true,
	}
}

// MessageChannel is a short professional network message
func MessageChannel(id Identity) Channel {
	return Channel{
		Type:              Message,
		Prompt:            "message",
		WordLimit:         MessageWordLimit,
		Placeholder:       orDefault(id.MessagePlaceholder, DefaultMessagePlaceholder),
		Addressed:         true,
		ForbidAttachments: true,
	}
}

// CoverLetterChannel is an unaddressed letter body without signature
func CoverLetterChannel() Channel {
	return Channel{
		Type:            CoverLetter,
		Prompt:          "cover_letter",
		WordLimit:       CoverLetterWordLimit,
		ForbidBullets:   true,
		ForbidSignature: true,
	}
}

// ChannelFor returns the channel description for a content type
func ChannelFor(t ContentType, id Identity) (Channel, bool) {
	switch t {
	case Email:
		return EmailChannel(id), true
	case Message:
		return MessageChannel(id), true
	case CoverLetter:
		return CoverLetterChannel(), true
	}
	return Channel{}, false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
