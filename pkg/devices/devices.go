// Package devices enumerates the sound cards present on the machine and
// decides whether a preset refers only to cards that are plugged in.
package devices

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/germanamz/jackselect/pkg/preset"
)

// Card is one sound card.
type Card struct {
	Index  int
	ID     string
	Driver string
	Name   string
}

// Lister returns the cards currently available.
type Lister interface {
	Cards(ctx context.Context) ([]Card, error)
}

// DefaultCardsPath is the ALSA procfs card list.
const DefaultCardsPath = "/proc/asound/cards"

// ProcLister reads cards from an ALSA procfs card list.
type ProcLister struct {
	Path string
}

// NewProcLister creates a ProcLister reading DefaultCardsPath.
func NewProcLister() *ProcLister {
	return &ProcLister{Path: DefaultCardsPath}
}

// Cards implements Lister.
func (l *ProcLister) Cards(context.Context) ([]Card, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("devices: read cards: %w", err)
	}

	return ParseCards(data), nil
}

//  0 [PCH            ]: HDA-Intel - HDA Intel PCH
var cardLine = regexp.MustCompile(`^\s*(\d+)\s+\[([^\]]*)\]:\s*(\S+)\s+-\s+(.*)$`)

// ParseCards parses the contents of /proc/asound/cards. Continuation lines
// and anything not matching the card header format are ignored.
func ParseCards(data []byte) []Card {
	var cards []Card

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m := cardLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}

		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		cards = append(cards, Card{
			Index:  idx,
			ID:     strings.TrimSpace(m[2]),
			Driver: m[3],
			Name:   strings.TrimSpace(m[4]),
		})
	}

	return cards
}

// deviceParams are the driver parameters naming an ALSA device.
var deviceParams = []string{"device", "capture", "playback"}

// Selectable reports whether every ALSA device named by settings refers to one
// of cards. Presets for other backends, and device names without a card part
// such as "default", are always selectable.
func Selectable(settings preset.Settings, cards []Card) bool {
	if v, ok := settings.Lookup(preset.Engine, "driver"); ok {
		if d, isStr := v.AsString(); isStr && d != "alsa" {
			return true
		}
	}

	for _, name := range deviceParams {
		v, ok := settings.Lookup(preset.Driver, name)
		if !ok {
			continue
		}

		dev, isStr := v.AsString()
		if !isStr {
			continue
		}

		card, ok := CardOf(dev)
		if ok && !hasCard(cards, card) {
			return false
		}
	}

	return true
}

// CardOf extracts the card part of an ALSA device name: "hw:USB,0" gives
// "USB", "plughw:1" gives "1". Names without a colon have no card part.
func CardOf(device string) (string, bool) {
	_, rest, ok := strings.Cut(strings.TrimSpace(device), ":")
	if !ok {
		return "", false
	}

	card, _, _ := strings.Cut(rest, ",")
	card = strings.TrimPrefix(card, "CARD=")
	if card == "" {
		return "", false
	}

	return card, true
}

func hasCard(cards []Card, card string) bool {
	idx, numErr := strconv.Atoi(card)

	for _, c := range cards {
		if numErr == nil && c.Index == idx {
			return true
		}
		if c.ID == card {
			return true
		}
	}

	return false
}
