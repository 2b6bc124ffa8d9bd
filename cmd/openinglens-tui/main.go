package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patzerworks/openinglens/pkg/cluster"
	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/store"
	"github.com/patzerworks/openinglens/pkg/viewport"
)

// Terminal cells map to engine pixels at a fixed ratio so the engine's
// pixel-based thresholds (drag, padding) behave sensibly.
const (
	cellW     = 10.0
	cellH     = 20.0
	frameRate = 50 * time.Millisecond
	sideWidth = 34
)

// Styles
var (
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	hoverStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	rootStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	missingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	winStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	evenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// uiState carries engine callback results into the view. The engine and
// the tea loop share one goroutine, so plain fields are safe.
type uiState struct {
	selectedID   string
	hoveredLabel string
	hoveredHull  string
	fits         int
}

type frameMsg time.Time

type loadedMsg struct {
	data     graph.GraphData
	clusters []*graph.Cluster
	insights []string
	err      error
}

type model struct {
	dbPath string
	method cluster.Method

	eng   *viewport.Engine
	state *uiState

	spinner  spinner.Model
	data     graph.GraphData
	clusters []*graph.Cluster
	insights []string
	loaded   bool
	err      error

	cols, rows int
}

func initialModel(dbPath string, method cluster.Method, logger *slog.Logger) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	st := &uiState{}
	eng := viewport.New(viewport.Callbacks{
		OnNodeClick: func(n *graph.PositionNode) {
			if st.selectedID == n.ID {
				st.selectedID = ""
			} else {
				st.selectedID = n.ID
			}
		},
		OnNodeHover: func(n *graph.PositionNode) {
			st.hoveredLabel = nodeLabel(n)
		},
		OnNodeHoverEnd: func() { st.hoveredLabel = "" },
		OnClusterHover: func(name string, _ int) { st.hoveredHull = name },
		OnClusterHoverEnd: func() { st.hoveredHull = "" },
		OnAutoFitComplete: func() { st.fits++ },
	}, logger, time.Now())

	return model{
		dbPath:  dbPath,
		method:  method,
		eng:     eng,
		state:   st,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadGraph(m.dbPath, m.method), frame())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	now := time.Now()
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Close()
			return m, tea.Quit
		case "f":
			m.eng.FitView(now)
		case "c":
			m.eng.ZoomToClusters(now)
		case "r":
			m.eng.Reset(now)
		}

	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		graphCols := m.cols - sideWidth
		if graphCols < 10 {
			graphCols = m.cols
		}
		m.eng.SetSize(float64(graphCols)*cellW, float64(m.rows-2)*cellH, now)

	case tea.MouseMsg:
		x, y := float64(msg.X)*cellW, float64(msg.Y)*cellH
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.eng.Wheel(x, y, 1, now)
		case msg.Button == tea.MouseButtonWheelDown:
			m.eng.Wheel(x, y, -1, now)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.eng.MouseDown(x, y, now)
		case msg.Action == tea.MouseActionMotion:
			m.eng.MouseMove(x, y, now)
		case msg.Action == tea.MouseActionRelease:
			m.eng.MouseUp(x, y, now)
		}

	case frameMsg:
		m.eng.Tick(time.Time(msg))
		cmds = append(cmds, frame())

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.data = msg.data
			m.clusters = msg.clusters
			m.insights = msg.insights
			m.loaded = true
			m.eng.SetGraph(msg.data, now)
			m.eng.SetPositionClusters(msg.clusters, "", now)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err)) +
			subtleStyle.Render("Press q to quit")
	}
	if !m.loaded || m.eng.State() != viewport.StateReady {
		return fmt.Sprintf("\n %s Positioning %d nodes...", m.spinner.View(), len(m.data.Nodes))
	}

	graphCols := m.cols - sideWidth
	if graphCols < 10 {
		graphCols = m.cols
	}
	graphRows := m.rows - 2
	if graphRows < 1 {
		graphRows = 1
	}

	canvas := m.renderGrid(graphCols, graphRows)
	side := m.renderSidePane(graphRows)

	body := canvas
	if graphCols != m.cols {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, side)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

// renderGrid projects every node through the current transform onto a
// rune grid, one label per node, topmost written last.
func (m model) renderGrid(cols, rows int) string {
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	tr, ok := m.eng.Transform()
	if !ok {
		return strings.Repeat("\n", rows-1)
	}

	for _, n := range m.data.Nodes {
		sx, sy := tr.WorldToScreen(n.X, n.Y)
		col, row := int(sx/cellW), int(sy/cellH)
		if row < 0 || row >= rows {
			continue
		}

		label := nodeLabel(n)
		style := styleFor(n, m.state.selectedID)
		start := col - len(label)/2
		for i, r := range label {
			c := start + i
			if c < 0 || c >= cols {
				continue
			}
			grid[row][c] = style.Render(string(r))
		}
	}

	lines := make([]string, rows)
	for i, rowCells := range grid {
		lines[i] = strings.Join(rowCells, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) renderSidePane(rows int) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render("Clusters") + "\n\n")

	if len(m.clusters) == 0 {
		sb.WriteString(subtleStyle.Render("No clusters.") + "\n")
	}
	for _, c := range m.clusters {
		name := c.Label
		if c.ID == m.state.hoveredHull || name == m.state.hoveredHull {
			name = hoverStyle.Render(name)
		}
		sb.WriteString(fmt.Sprintf("%s\n", name))
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("  %d nodes · %.0f%% · %d games\n",
			c.Stats.Count, c.Stats.AvgWinRate, c.Stats.TotalGames)))
	}

	if len(m.insights) > 0 {
		sb.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Insights") + "\n")
		for _, in := range m.insights {
			sb.WriteString(subtleStyle.Render("• "+in) + "\n")
		}
	}

	return paneStyle.Width(sideWidth - 4).Height(rows - 2).Render(sb.String())
}

func (m model) statusLine() string {
	tr, _ := m.eng.Transform()
	parts := []string{
		fmt.Sprintf("%d nodes", len(m.data.Nodes)),
		fmt.Sprintf("zoom %.2f", tr.Scale),
	}
	if m.state.hoveredLabel != "" {
		parts = append(parts, "over "+m.state.hoveredLabel)
	}
	if m.state.selectedID != "" {
		parts = append(parts, selectedStyle.Render("selected "+m.state.selectedID))
	}
	if m.eng.AutoFitPending() {
		parts = append(parts, m.spinner.View()+" fitting")
	}
	parts = append(parts, "f fit · c clusters · r reset · q quit")
	return statusStyle.Render(strings.Join(parts, "  •  "))
}

func nodeLabel(n *graph.PositionNode) string {
	if n.IsRoot {
		return "Start"
	}
	if len(n.Moves) == 0 {
		return n.ID
	}
	return n.Moves[len(n.Moves)-1]
}

func styleFor(n *graph.PositionNode, selectedID string) lipgloss.Style {
	switch {
	case n.ID == selectedID:
		return selectedStyle
	case n.IsRoot:
		return rootStyle
	case n.IsMissing:
		return missingStyle
	case n.WinRate == nil:
		return subtleStyle
	case *n.WinRate >= 55:
		return winStyle
	case *n.WinRate <= 45:
		return lossStyle
	default:
		return evenStyle
	}
}

// Commands

func loadGraph(dbPath string, method cluster.Method) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		st, err := store.NewStore(dbPath)
		if err != nil {
			return loadedMsg{err: err}
		}
		defer st.Close()

		games, err := st.Games(ctx, store.GameFilter{})
		if err != nil {
			return loadedMsg{err: err}
		}
		if len(games) == 0 {
			return loadedMsg{err: fmt.Errorf("no games in %s; run openinglens -seed-demo first", dbPath)}
		}

		data := graph.Build(games, graph.BuildOptions{})

		opts := cluster.DefaultOptions()
		opts.Method = method
		res := cluster.Run(data.Nodes, opts)

		return loadedMsg{
			data:     data,
			clusters: res.Clusters,
			insights: res.Insights,
		}
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func main() {
	cwd, _ := os.Getwd()
	defaultDB := filepath.Join(cwd, "openinglens.db")
	if env := os.Getenv("OPENINGLENS_DB_PATH"); env != "" {
		defaultDB = env
	}

	dbPath := flag.String("db", defaultDB, "path to SQLite games database")
	method := flag.String("cluster", "dbscan", "cluster overlay: dbscan|kmeans")
	metricsAddr := flag.String("metrics-addr", "", "optional Prometheus listen address")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	p := tea.NewProgram(
		initialModel(*dbPath, cluster.Method(*method), logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
