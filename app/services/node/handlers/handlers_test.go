package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/groovechain/groovechain/app/services/node/handlers"
	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
	"github.com/groovechain/groovechain/foundation/blockchain/miner"
	"github.com/groovechain/groovechain/foundation/blockchain/nodeclient"
	"github.com/groovechain/groovechain/foundation/blockchain/state"
	"github.com/groovechain/groovechain/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// testDifficulty keeps the work search fast while still exercising the
// difficulty predicate end to end.
const testDifficulty uint = 4

var noopEv = func(v string, args ...any) {}

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ChainID:    1,
		Difficulty: testDifficulty,
	}
}

// testNode stands up a node state behind the private API mux and returns a
// client pointed at it along with the host it serves on.
func testNode(t *testing.T) (*state.State, *nodeclient.Client, string) {
	t.Helper()

	gen := testGenesis()
	st, err := state.New(state.Config{
		Genesis: gen,
		Host:    "test",
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	mux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	host := strings.TrimPrefix(srv.URL, "http://")
	return st, nodeclient.New(host), host
}

// mine performs a real work search on top of the specified parent.
func mine(t *testing.T, parent block.Block, label string) block.Block {
	t.Helper()

	b := block.New(parent, label, block.MoveM)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.Solve(ctx, testDifficulty, noopEv); err != nil {
		t.Fatalf("\t%s\tShould be able to solve a block: %v", failed, err)
	}

	return b
}

// =============================================================================

func Test_MinerProtocol(t *testing.T) {
	t.Log("Given the need to validate the miner protocol end to end.")
	{
		st, client, host := testNode(t)
		gen := testGenesis()
		genBlock := gen.Block()

		testID := 0
		t.Logf("\tTest %d:\tWhen fetching the network parameters.", testID)
		{
			cfg, err := client.Config()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to fetch the config: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to fetch the config.", success, testID)

			if cfg.ChainID != gen.ChainID || cfg.Difficulty != gen.Difficulty || cfg.GenesisID != genBlock.ID {
				t.Fatalf("\t%s\tTest %d:\tShould get the node's parameters back: %+v", failed, testID, cfg)
			}
			t.Logf("\t%s\tTest %d:\tShould get the node's parameters back.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen registering and checking status.", testID)
		{
			if err := client.Register("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to register: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to register.", success, testID)

			status, err := client.Status()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to fetch the status: %v", failed, testID, err)
			}

			if status.TipID != genBlock.ID || status.TipHeight != 0 || status.Blocks != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould start with genesis as the tip: %+v", failed, testID, status)
			}
			t.Logf("\t%s\tTest %d:\tShould start with genesis as the tip.", success, testID)

			if len(status.Miners) != 1 || status.Miners[0] != "alice" {
				t.Fatalf("\t%s\tTest %d:\tShould list the registered miner: %+v", failed, testID, status.Miners)
			}
			t.Logf("\t%s\tTest %d:\tShould list the registered miner.", success, testID)
		}

		var b1 block.Block

		testID = 2
		t.Logf("\tTest %d:\tWhen submitting a solved block.", testID)
		{
			b1 = mine(t, genBlock, "alice")

			resp, err := client.SubmitBlock(b1)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit the block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to submit the block.", success, testID)

			if resp.Verdict != string(state.VerdictAccepted) || resp.TipID != b1.ID || resp.TipHeight != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould get an accepted verdict with the new tip: %+v", failed, testID, resp)
			}
			t.Logf("\t%s\tTest %d:\tShould get an accepted verdict with the new tip.", success, testID)
		}

		testID = 3
		t.Logf("\tTest %d:\tWhen submitting the same block again.", testID)
		{
			resp, err := client.SubmitBlock(b1)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to resubmit the block: %v", failed, testID, err)
			}

			if resp.Verdict != string(state.VerdictAlreadyKnown) {
				t.Fatalf("\t%s\tTest %d:\tShould get an already_known verdict: %+v", failed, testID, resp)
			}
			t.Logf("\t%s\tTest %d:\tShould get an already_known verdict.", success, testID)
		}

		testID = 4
		t.Logf("\tTest %d:\tWhen submitting a block with a broken height.", testID)
		{
			bad := block.New(b1, "mallory", block.MoveA)
			bad.Header.Height += 5
			solveInPlace(t, &bad)

			resp, err := client.SubmitBlock(bad)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould get a decodable rejection, not a transport error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a decodable rejection, not a transport error.", success, testID)

			if resp.Verdict != string(state.VerdictRejected) || resp.Reason != "bad_height" {
				t.Fatalf("\t%s\tTest %d:\tShould get a rejected verdict with bad_height: %+v", failed, testID, resp)
			}
			t.Logf("\t%s\tTest %d:\tShould get a rejected verdict with bad_height.", success, testID)

			if resp.TipID != b1.ID {
				t.Fatalf("\t%s\tTest %d:\tShould keep the tip unchanged on a rejection.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the tip unchanged on a rejection.", success, testID)
		}

		testID = 5
		t.Logf("\tTest %d:\tWhen a second miner extends the chain after a full sync.", testID)
		{
			src := &fixedSource{}
			mnr, err := miner.New(miner.Config{
				MinerLabel: "bob",
				NodeHost:   host,
				Genesis:    gen,
				MoveSource: src,
				EvHandler:  noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a miner: %v", failed, testID, err)
			}

			if err := mnr.Sync(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sync from the node: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to sync from the node.", success, testID)

			parent := mnr.SelectParent()
			if parent.ID != b1.ID {
				t.Fatalf("\t%s\tTest %d:\tShould select the node's tip as the parent.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould select the node's tip as the parent.", success, testID)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			b2, err := mnr.MineNewBlock(ctx, parent)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a new block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a new block.", success, testID)

			resp, err := mnr.SubmitBlock(b2)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit the mined block: %v", failed, testID, err)
			}

			if resp.Verdict != string(state.VerdictAccepted) || resp.TipHeight != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould grow the chain to height 2: %+v", failed, testID, resp)
			}
			t.Logf("\t%s\tTest %d:\tShould grow the chain to height 2.", success, testID)

			if st.RetrieveTreeLen() != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould hold three blocks on the node: got %d.", failed, testID, st.RetrieveTreeLen())
			}
			t.Logf("\t%s\tTest %d:\tShould hold three blocks on the node.", success, testID)
		}
	}
}

func Test_PublicAPI(t *testing.T) {
	t.Log("Given the need to validate the viewer endpoints.")
	{
		gen := testGenesis()
		st, err := state.New(state.Config{
			Genesis: gen,
			Host:    "test",
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		mux := handlers.PublicMux(handlers.MuxConfig{
			Shutdown: make(chan os.Signal, 1),
			Log:      zap.NewNop().Sugar(),
			State:    st,
			Evts:     events.New(),
		})

		srv := httptest.NewServer(mux)
		defer srv.Close()

		testID := 0
		t.Logf("\tTest %d:\tWhen fetching the genesis information.", testID)
		{
			resp, err := http.Get(srv.URL + "/v1/genesis/list")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to call the endpoint: %v", failed, testID, err)
			}
			defer resp.Body.Close()

			var got genesis.Genesis
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to decode the response: %v", failed, testID, err)
			}

			if got.ChainID != gen.ChainID || got.Difficulty != gen.Difficulty {
				t.Fatalf("\t%s\tTest %d:\tShould get the genesis information back: %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould get the genesis information back.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen fetching the tree drawing.", testID)
		{
			resp, err := http.Get(srv.URL + "/v1/tree/render")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to call the endpoint: %v", failed, testID, err)
			}
			defer resp.Body.Close()

			var got struct {
				Tree string `json:"tree"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to decode the response: %v", failed, testID, err)
			}

			if !strings.Contains(got.Tree, block.GenesisLabel) {
				t.Fatalf("\t%s\tTest %d:\tShould draw the genesis block: %q", failed, testID, got.Tree)
			}
			t.Logf("\t%s\tTest %d:\tShould draw the genesis block.", success, testID)
		}
	}
}

// =============================================================================

// solveInPlace performs the work search without resetting the header fields
// the test deliberately broke.
func solveInPlace(t *testing.T, b *block.Block) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.Solve(ctx, testDifficulty, noopEv); err != nil {
		t.Fatalf("\t%s\tShould be able to solve a block: %v", failed, err)
	}
}

// fixedSource always picks the first move so the test is deterministic.
type fixedSource struct{}

func (fixedSource) Intn(n int) int { return 0 }
