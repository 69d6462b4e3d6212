// Package correction supplies party and state fixes that cannot be scraped
// reliably from bill pages.
package correction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"cosponsor_spider/internal/models"

	"gopkg.in/yaml.v2"
)

// Correction holds replacement values; empty fields leave the record as is.
type Correction struct {
	Party string `yaml:"party"`
	State string `yaml:"state"`
}

type Provider interface {
	Correct(p *models.Politician) (Correction, error)
}

// Apply runs the provider over the politicians in the given order.
func Apply(provider Provider, politicians []*models.Politician) (int, error) {
	changed := 0
	for _, p := range politicians {
		c, err := provider.Correct(p)
		if err != nil {
			return changed, fmt.Errorf("correct %s: %w", p.ID, err)
		}
		if c.Party == "" && c.State == "" {
			continue
		}
		if c.Party != "" {
			p.Party = c.Party
		}
		if c.State != "" {
			p.State = c.State
		}
		changed++
	}
	return changed, nil
}

// Static is a fixed mapping from politician identifier to correction.
type Static map[string]Correction

func (s Static) Correct(p *models.Politician) (Correction, error) {
	return s[p.ID], nil
}

// LoadFile reads a YAML mapping of identifier to {party, state}.
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corrections %s: %w", path, err)
	}
	var s Static
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse corrections %s: %w", path, err)
	}
	return s, nil
}

// Prompt asks for each politician's party and then state. An empty answer
// keeps the scraped value.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out}
}

func (pr *Prompt) Correct(p *models.Politician) (Correction, error) {
	fmt.Fprintln(pr.out, p.Label())

	party, err := pr.ask("party?")
	if err != nil {
		return Correction{}, err
	}
	state, err := pr.ask("state?")
	if err != nil {
		return Correction{}, err
	}
	return Correction{Party: party, State: state}, nil
}

func (pr *Prompt) ask(question string) (string, error) {
	fmt.Fprint(pr.out, question+" ")
	if !pr.in.Scan() {
		if err := pr.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.ToUpper(strings.TrimSpace(pr.in.Text())), nil
}

// Chain asks each provider in turn; later non-empty fields win.
type Chain []Provider

func (c Chain) Correct(p *models.Politician) (Correction, error) {
	var out Correction
	for _, provider := range c {
		next, err := provider.Correct(p)
		if err != nil {
			return Correction{}, err
		}
		if next.Party != "" {
			out.Party = next.Party
		}
		if next.State != "" {
			out.State = next.State
		}
	}
	return out, nil
}
