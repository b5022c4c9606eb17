package genesis_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Load(t *testing.T) {
	t.Log("Given the need to validate loading the genesis file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen loading a well formed file.", testID)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			doc := `{"date": "2026-01-01T00:00:00Z", "chain_id": 1, "difficulty": 16}`
			if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the genesis file: %v", failed, testID, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the genesis file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the genesis file.", success, testID)

			if gen.ChainID != 1 || gen.Difficulty != 16 {
				t.Fatalf("\t%s\tTest %d:\tShould get the configured parameters: chain_id %d difficulty %d", failed, testID, gen.ChainID, gen.Difficulty)
			}
			t.Logf("\t%s\tTest %d:\tShould get the configured parameters.", success, testID)

			if !gen.Date.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("\t%s\tTest %d:\tShould get the configured date: %v", failed, testID, gen.Date)
			}
			t.Logf("\t%s\tTest %d:\tShould get the configured date.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen loading a missing file.", testID)
		{
			if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error for a missing file.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error for a missing file.", success, testID)
		}
	}
}

func Test_DerivedBlock(t *testing.T) {
	t.Log("Given the need to validate the derived genesis block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen deriving the block from the same parameters.", testID)
		{
			gen := genesis.Genesis{
				Date:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				ChainID:    1,
				Difficulty: 16,
			}

			b1 := gen.Block()
			b2 := gen.Block()
			if b1 != b2 {
				t.Fatalf("\t%s\tTest %d:\tShould derive the identical block every time.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould derive the identical block every time.", success, testID)

			if !b1.IsGenesis() {
				t.Fatalf("\t%s\tTest %d:\tShould derive a parentless block at height 0.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould derive a parentless block at height 0.", success, testID)

			if b1.ID != b1.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould have an id matching the recomputed digest.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have an id matching the recomputed digest.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen deriving blocks from different dates.", testID)
		{
			gen1 := genesis.Genesis{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
			gen2 := genesis.Genesis{Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}

			if gen1.Block().ID == gen2.Block().ID {
				t.Fatalf("\t%s\tTest %d:\tShould derive different ids for different dates.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould derive different ids for different dates.", success, testID)
		}
	}
}
