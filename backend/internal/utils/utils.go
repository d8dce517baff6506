package utils

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/errors"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 20_000
	maxLinks          = 20
)

type TitleValidator struct{}

func (v *TitleValidator) Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.InvalidInput("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return errors.InvalidInput("title is too long")
	}
	return nil
}

type CardValidator struct {
	TitleValidator
}

func (v *CardValidator) Description(text string) error {
	if utf8.RuneCountInString(text) > maxDescriptionLen {
		return errors.InvalidInput("description is too long")
	}
	return nil
}

func (v *CardValidator) Priority(p domain.Priority) error {
	if p < domain.PriorityNone || p > domain.PriorityHigh {
		return errors.InvalidInput("unknown priority %d", p)
	}
	return nil
}

// Links accepts absolute http(s) urls only.
func (v *CardValidator) Links(links domain.Links) error {
	if len(links) > maxLinks {
		return errors.InvalidInput("too many links")
	}
	for _, l := range links {
		u, err := url.Parse(l)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.InvalidInput("bad link %q", l)
		}
	}
	return nil
}
