// Package ident mints the public identifiers handed out to students:
// report reference IDs (SB-XXXXX-XXXXX) and member IDs (SB<year>XXXXXX).
//
// IDs are random and uncoordinated; uniqueness is enforced by the store's
// unique index, not here.
package ident

import (
	"crypto/rand"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Prefix = "SB"

	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

	reportTimeChars   = 5
	reportRandomChars = 5
	memberRandomChars = 6
)

var (
	ReportIDPattern = regexp.MustCompile(`^SB-[0-9A-Z]{5}-[0-9A-Z]{5}$`)
	MemberIDPattern = regexp.MustCompile(`^SB\d{4}[0-9A-Z]{6}$`)
)

// Generator produces identifiers from a clock and a randomness source.
type Generator struct {
	Now    func() time.Time
	Random io.Reader
}

// New returns a Generator backed by time.Now and crypto/rand.
func New() *Generator {
	return &Generator{Now: time.Now, Random: rand.Reader}
}

// ReportID returns SB-<last 5 base36 chars of unix millis>-<5 random base36>, uppercased.
func (g *Generator) ReportID() (string, error) {
	ts := strconv.FormatInt(g.now().UnixMilli(), 36)
	if len(ts) > reportTimeChars {
		ts = ts[len(ts)-reportTimeChars:]
	}
	r, err := g.randomBase36(reportRandomChars)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(Prefix + "-" + ts + "-" + r), nil
}

// MemberID returns SB<4-digit year><6 random uppercase base36>.
func (g *Generator) MemberID() (string, error) {
	r, err := g.randomBase36(memberRandomChars)
	if err != nil {
		return "", err
	}
	return Prefix + strconv.Itoa(g.now().Year()) + strings.ToUpper(r), nil
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Generator) randomBase36(n int) (string, error) {
	src := g.Random
	if src == nil {
		src = rand.Reader
	}
	max := big.NewInt(int64(len(base36)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(src, max)
		if err != nil {
			return "", err
		}
		b[i] = base36[v.Int64()]
	}
	return string(b), nil
}
