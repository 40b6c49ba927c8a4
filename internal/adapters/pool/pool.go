// Package pool loads the candidate pool from a YAML or JSON document and keeps
// it fresh by watching the file.
//
// Document shape (JSON is accepted as the YAML subset it is):
//
//	players:
//	  "123":
//	    name: Player A
//	    team: LAL
//	    pos: [SG, SF]
//	    cats: {pts: 24.5, reb: 6.1, to: 2.3}
//
// "positions" and "categories" are accepted as aliases. Mapping order in the
// document becomes pool order.
package pool

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/bricklayers/internal/domain/model"
)

// Sentinel kinds for pool loading errors.
var (
	ErrDecode       = errors.New("decode pool")
	ErrNoPlayers    = errors.New("pool document has no players mapping")
	ErrInvalidShape = errors.New("invalid pool document")
)

type document struct {
	Players yaml.Node `yaml:"players"`
}

type playerDoc struct {
	Name       string               `yaml:"name"`
	Team       string               `yaml:"team"`
	Pos        []string             `yaml:"pos"`
	Positions  []string             `yaml:"positions"`
	Cats       map[string]yaml.Node `yaml:"cats"`
	Categories map[string]yaml.Node `yaml:"categories"`
}

// LoadFile reads and decodes the pool document at path.
func LoadFile(path string) (*model.Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pool %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode parses a pool document. Positions are upper-cased and category keys
// lower-cased. Category values that are not finite numbers are dropped so they
// read as missing.
func Decode(r io.Reader) (*model.Pool, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPlayers
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	switch doc.Players.Kind {
	case 0:
		return nil, ErrNoPlayers
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("%w: players must be a mapping of id to player", ErrInvalidShape)
	}

	content := doc.Players.Content
	records := make([]model.PlayerRecord, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		id := content[i].Value
		var pd playerDoc
		if err := content[i+1].Decode(&pd); err != nil {
			return nil, fmt.Errorf("%w: player %q: %w", ErrDecode, id, err)
		}
		records = append(records, pd.record(id))
	}
	return model.NewPool(records), nil
}

func (pd playerDoc) record(id string) model.PlayerRecord {
	positions := pd.Pos
	if len(positions) == 0 {
		positions = pd.Positions
	}
	normalized := make([]string, 0, len(positions))
	for _, pos := range positions {
		if pos = strings.ToUpper(strings.TrimSpace(pos)); pos != "" {
			normalized = append(normalized, pos)
		}
	}

	raw := pd.Cats
	if len(raw) == 0 {
		raw = pd.Categories
	}
	// Keys are folded to lower case; on a collision the first key in sorted
	// order wins.
	cats := make(map[string]float64, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, seen := cats[key]; seen || key == "" {
			continue
		}
		if v, ok := numeric(raw[k]); ok {
			cats[key] = v
		}
	}

	return model.PlayerRecord{
		ID:         id,
		Name:       pd.Name,
		Team:       pd.Team,
		Positions:  normalized,
		Categories: cats,
	}
}

// numeric accepts int and float scalars only; quoted numbers, nulls and
// collections count as missing.
func numeric(n yaml.Node) (float64, bool) {
	if n.Kind != yaml.ScalarNode {
		return 0, false
	}
	if n.Tag != "!!int" && n.Tag != "!!float" {
		return 0, false
	}
	v, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		var f float64
		if n.Decode(&f) != nil {
			return 0, false
		}
		v = f
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
