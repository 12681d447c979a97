package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-threes/internal/games/threes"
)

// LoadMemory reads the memory image of a cart.
// Slots never written read as zero, so an unknown cart yields an empty image.
func (s *Store) LoadMemory(cart string) (threes.Memory, error) {
	var m threes.Memory

	rows, err := s.db.Query("SELECT slot, value FROM memory WHERE cart = ?", cart)
	if err != nil {
		return m, fmt.Errorf("storage: cannot load memory: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot int
		var value int64
		if err := rows.Scan(&slot, &value); err != nil {
			return m, fmt.Errorf("storage: cannot scan memory slot: %w", err)
		}
		if slot < 0 || slot >= threes.MemorySlots {
			continue
		}
		m[slot] = uint32(value)
	}
	if err := rows.Err(); err != nil {
		return m, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return m, nil
}

// SaveMemory writes every non-zero slot of m for the cart in one transaction.
// Zero slots are removed so that they read back as unwritten. The high score
// slot only ever grows: a lower or zero value keeps the stored one.
func (s *Store) SaveMemory(cart string, m threes.Memory) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx,
		`INSERT INTO memory (cart, slot, value) VALUES (?, ?, ?)
		 ON CONFLICT(cart, slot) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare memory write: %w", err)
	}
	defer upsert.Close()

	raise, err := tx.PrepareContext(ctx,
		`INSERT INTO memory (cart, slot, value) VALUES (?, ?, ?)
		 ON CONFLICT(cart, slot) DO UPDATE SET value = max(value, excluded.value)`)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare high score write: %w", err)
	}
	defer raise.Close()

	remove, err := tx.PrepareContext(ctx, "DELETE FROM memory WHERE cart = ? AND slot = ?")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare memory delete: %w", err)
	}
	defer remove.Close()

	for slot, v := range m {
		switch {
		case slot == threes.SlotHighScore:
			if v == 0 {
				continue
			}
			_, err = raise.ExecContext(ctx, cart, slot, int64(v))
		case v == 0:
			_, err = remove.ExecContext(ctx, cart, slot)
		default:
			_, err = upsert.ExecContext(ctx, cart, slot, int64(v))
		}
		if err != nil {
			return fmt.Errorf("storage: cannot write memory slot %d: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit memory: %w", err)
	}
	return nil
}

// Claim marks a cart as being played. It returns false if another game in
// this process already holds it; otherwise release must be called when the
// game ends.
func (s *Store) Claim(cart string) (release func(), ok bool) {
	if cart == "" {
		cart = DefaultCart
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed[cart] {
		return nil, false
	}
	s.claimed[cart] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.claimed, cart)
			s.mu.Unlock()
		})
	}, true
}

// Claimed returns the number of carts currently claimed.
func (s *Store) Claimed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claimed)
}

// ClearMemory erases the memory image of a cart, high score included.
func (s *Store) ClearMemory(cart string) error {
	if _, err := s.db.Exec("DELETE FROM memory WHERE cart = ?", cart); err != nil {
		return fmt.Errorf("storage: cannot clear memory: %w", err)
	}
	return nil
}

// Cart binds a store to one cart name.
type Cart struct {
	store *Store
	name  string
}

// Cart returns a handle for the named cart. Empty means DefaultCart.
func (s *Store) Cart(name string) *Cart {
	if name == "" {
		name = DefaultCart
	}
	return &Cart{store: s, name: name}
}

// Name returns the cart name.
func (c *Cart) Name() string {
	return c.name
}

// Load reads the cart's memory image.
func (c *Cart) Load() (threes.Memory, error) {
	return c.store.LoadMemory(c.name)
}

// SaveMemory implements threes.Persister.
func (c *Cart) SaveMemory(m threes.Memory) error {
	return c.store.SaveMemory(c.name, m)
}

// RecordScore stores a finished game for the cart.
func (c *Cart) RecordScore(score, bestTile int) error {
	_, err := c.store.SaveScore(c.name, score, bestTile)
	return err
}

// HighScore returns the cart's best recorded score.
func (c *Cart) HighScore() (int, error) {
	return c.store.HighScore(c.name)
}

var _ threes.Persister = (*Cart)(nil)
