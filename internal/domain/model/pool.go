package model

// Pool is an ordered, id-indexed candidate set. Iteration order is load order
// and is what ranking ties fall back to. A nil *Pool is an empty pool.
type Pool struct {
	players []PlayerRecord
	index   map[string]int
}

// NewPool builds a pool from records. A later record with an already seen id
// replaces the earlier one in place.
func NewPool(records []PlayerRecord) *Pool {
	p := &Pool{
		players: make([]PlayerRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if i, ok := p.index[r.ID]; ok {
			p.players[i] = r
			continue
		}
		p.index[r.ID] = len(p.players)
		p.players = append(p.players, r)
	}
	return p
}

// Len returns the number of players in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.players)
}

// Players returns the records in pool order. Callers must not modify the slice.
func (p *Pool) Players() []PlayerRecord {
	if p == nil {
		return nil
	}
	return p.players
}

// Get looks a player up by id.
func (p *Pool) Get(id string) (PlayerRecord, bool) {
	if p == nil {
		return PlayerRecord{}, false
	}
	i, ok := p.index[id]
	if !ok {
		return PlayerRecord{}, false
	}
	return p.players[i], true
}
