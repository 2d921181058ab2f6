// Package flash carries one-shot notifications across a redirect in a cookie.
package flash

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const cookieName = "flash"

type Level string

const (
	LevelSuccess Level = "success"
	LevelDanger  Level = "danger"
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func Set(c *fiber.Ctx, level Level, text string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(string(level) + "|" + text),
		Path:     "/",
		HTTPOnly: true,
	})
}

// Pop returns the pending message, if any, and clears it.
func Pop(c *fiber.Ctx) (Message, bool) {
	raw := c.Cookies(cookieName)
	if raw == "" {
		return Message{}, false
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return Message{}, false
	}
	level, text, ok := strings.Cut(decoded, "|")
	if !ok {
		return Message{}, false
	}
	return Message{Level: Level(level), Text: text}, true
}
