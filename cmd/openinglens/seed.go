package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/store"
)

// demoLines are common opening sequences used to seed an empty database so
// the export has something to draw. Position keys are derived from the
// move sequence; real imports carry actual FENs.
var demoLines = []struct {
	moves  string
	result graph.GameResult
}{
	{"e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6", graph.ResultWin},
	{"e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6", graph.ResultWin},
	{"e4 c5 Nf3 Nc6 Bb5 g6", graph.ResultDraw},
	{"e4 c5 Nf3 Nc6 Bb5 g6", graph.ResultLoss},
	{"e4 e6 d4 d5 Nc3 Bb4", graph.ResultWin},
	{"e4 e6 d4 d5 Nc3 Nf6", graph.ResultLoss},
	{"e4 e5 Nf3 Nc6 Bb5 a6 Ba4 Nf6", graph.ResultWin},
	{"e4 e5 Nf3 Nc6 Bb5 a6 Bxc6 dxc6", graph.ResultDraw},
	{"d4 d5 c4 e6 Nc3 Nf6", graph.ResultLoss},
	{"d4 d5 c4 c6 Nf3 Nf6", graph.ResultWin},
	{"d4 Nf6 c4 g6 Nc3 Bg7", graph.ResultLoss},
	{"d4 Nf6 c4 e6 g3 d5", graph.ResultDraw},
}

func seedDemoGames(ctx context.Context, st *store.Store) error {
	base := time.Now().AddDate(0, -3, 0)
	for i, line := range demoLines {
		sans := strings.Fields(line.moves)
		plies := make([]graph.Ply, len(sans))
		for j, san := range sans {
			plies[j] = graph.Ply{
				SAN: san,
				FEN: strings.Join(sans[:j+1], " "),
			}
		}
		rec := store.GameRecord{
			ID:       fmt.Sprintf("demo-%03d", i+1),
			White:    "you",
			Black:    "opponent",
			Result:   line.result,
			PlayedAt: base.AddDate(0, 0, i*7),
			Plies:    plies,
		}
		if err := st.SaveGame(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
