package state_test

import (
	"sync"
	"testing"
	"time"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/blockchain/chain"
	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
	"github.com/groovechain/groovechain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func testState(t *testing.T) *state.State {
	t.Helper()

	gen := genesis.Genesis{
		Date:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ChainID:    1,
		Difficulty: 0,
	}

	st, err := state.New(state.Config{
		Genesis: gen,
		Host:    "0.0.0.0:9080",
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return st
}

// child constructs a solved block on top of the specified parent without
// performing a work search. The state under test runs at difficulty zero.
func child(parent block.Block, nonce uint64, label string) block.Block {
	b := block.Block{
		Header: block.Header{
			Height:     parent.Header.Height + 1,
			ParentID:   parent.ID,
			Nonce:      nonce,
			TimeStamp:  parent.Header.TimeStamp + 1,
			MinerLabel: label,
			Move:       block.MoveC,
		},
	}
	b.ID = b.Hash()
	return b
}

// =============================================================================

func Test_ProcessSubmittedBlock(t *testing.T) {
	t.Log("Given the need to validate block submission processing.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen submitting a well formed block.", testID)
		{
			st := testState(t)
			b := child(st.RetrieveTip(), 7, "alice")

			result, err := st.ProcessSubmittedBlock(b)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to process the submission: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to process the submission.", success, testID)

			if result.Verdict != state.VerdictAccepted {
				t.Fatalf("\t%s\tTest %d:\tShould get an accepted verdict: got %s.", failed, testID, result.Verdict)
			}
			t.Logf("\t%s\tTest %d:\tShould get an accepted verdict.", success, testID)

			if result.Tip.ID != b.ID {
				t.Fatalf("\t%s\tTest %d:\tShould report the new block as the tip.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report the new block as the tip.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen submitting the same block twice.", testID)
		{
			st := testState(t)
			b := child(st.RetrieveTip(), 7, "alice")

			if _, err := st.ProcessSubmittedBlock(b); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to process the first submission: %v", failed, testID, err)
			}

			result, err := st.ProcessSubmittedBlock(b)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to process the second submission: %v", failed, testID, err)
			}

			if result.Verdict != state.VerdictAlreadyKnown {
				t.Fatalf("\t%s\tTest %d:\tShould get an already_known verdict: got %s.", failed, testID, result.Verdict)
			}
			t.Logf("\t%s\tTest %d:\tShould get an already_known verdict.", success, testID)

			if st.RetrieveTreeLen() != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould not grow the tree on a duplicate: got %d blocks.", failed, testID, st.RetrieveTreeLen())
			}
			t.Logf("\t%s\tTest %d:\tShould not grow the tree on a duplicate.", success, testID)
		}

		testID = 2
		t.Logf("\tTest %d:\tWhen submitting a block with an unknown parent.", testID)
		{
			st := testState(t)
			b := child(block.Block{ID: "0xunknown", Header: block.Header{Height: 3}}, 7, "mallory")

			result, err := st.ProcessSubmittedBlock(b)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to process the submission: %v", failed, testID, err)
			}

			if result.Verdict != state.VerdictRejected || result.Reason != chain.ReasonUnknownParent {
				t.Fatalf("\t%s\tTest %d:\tShould get a rejected verdict with unknown_parent: got %s/%s.", failed, testID, result.Verdict, result.Reason)
			}
			t.Logf("\t%s\tTest %d:\tShould get a rejected verdict with unknown_parent.", success, testID)

			if result.Tip.ID == "" {
				t.Fatalf("\t%s\tTest %d:\tShould still report the current tip on a rejection.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould still report the current tip on a rejection.", success, testID)
		}

		testID = 3
		t.Logf("\tTest %d:\tWhen submitting a tampered block.", testID)
		{
			st := testState(t)
			b := child(st.RetrieveTip(), 7, "mallory")
			b.Header.Move = block.MoveA

			result, err := st.ProcessSubmittedBlock(b)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to process the submission: %v", failed, testID, err)
			}

			if result.Verdict != state.VerdictRejected || result.Reason != chain.ReasonDigestMismatch {
				t.Fatalf("\t%s\tTest %d:\tShould get a rejected verdict with digest_mismatch: got %s/%s.", failed, testID, result.Verdict, result.Reason)
			}
			t.Logf("\t%s\tTest %d:\tShould get a rejected verdict with digest_mismatch.", success, testID)
		}
	}
}

func Test_ConcurrentSubmissions(t *testing.T) {
	t.Log("Given the need to serialize submissions from many miners.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen many miners submit forks concurrently.", testID)
		{
			st := testState(t)
			gen := st.RetrieveTip()

			const miners = 10
			blocks := make([]block.Block, miners)
			for i := range blocks {
				blocks[i] = child(gen, uint64(i+1), "miner")
			}

			var wg sync.WaitGroup
			wg.Add(miners)
			errs := make(chan error, miners)

			for i := 0; i < miners; i++ {
				go func(b block.Block) {
					defer wg.Done()
					if _, err := st.ProcessSubmittedBlock(b); err != nil {
						errs <- err
					}
				}(blocks[i])
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Fatalf("\t%s\tTest %d:\tShould process every submission cleanly: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould process every submission cleanly.", success, testID)

			if st.RetrieveTreeLen() != miners+1 {
				t.Fatalf("\t%s\tTest %d:\tShould hold every fork: got %d blocks, exp %d.", failed, testID, st.RetrieveTreeLen(), miners+1)
			}
			t.Logf("\t%s\tTest %d:\tShould hold every fork.", success, testID)

			// All forks tie at height 1, so the lowest nonce wins.
			if tip := st.RetrieveTip(); tip.Header.Nonce != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould select the lowest nonce fork as the tip: got nonce %d.", failed, testID, tip.Header.Nonce)
			}
			t.Logf("\t%s\tTest %d:\tShould select the lowest nonce fork as the tip.", success, testID)
		}
	}
}

func Test_MinerRegistry(t *testing.T) {
	t.Log("Given the need to track registered miners.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen miners register, repeats included.", testID)
		{
			st := testState(t)

			if !st.RegisterMiner("alice") {
				t.Fatalf("\t%s\tTest %d:\tShould report a new label as new.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report a new label as new.", success, testID)

			if st.RegisterMiner("alice") {
				t.Fatalf("\t%s\tTest %d:\tShould report a repeat label as known.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report a repeat label as known.", success, testID)

			st.RegisterMiner("bob")
			if miners := st.RetrieveMiners(); len(miners) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould hold each label once: got %d.", failed, testID, len(miners))
			}
			t.Logf("\t%s\tTest %d:\tShould hold each label once.", success, testID)
		}
	}
}
