package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rugwatch/internal/dashboard"
	"rugwatch/internal/feed"
	"rugwatch/internal/model"
	"rugwatch/internal/view"
)

// Styles.
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	buyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	sellStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	largeStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	symbolStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	usernameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	clockStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	gainStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	editingStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerBarStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	feedDownStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
)

// Lines each rendered list item occupies; used to map the item-granular
// scroll offset onto the viewport.
const (
	tradeItemLines = 4
	priceItemLines = 3
)

// Messages.
type tickMsg time.Time

type feedDownMsg struct{ err error }

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// tuiModel is the bubbletea model wrapping the dashboard view state.
type tuiModel struct {
	st       *view.State
	commands chan string
	logger   *slog.Logger
	tick     time.Duration

	viewport      viewport.Model
	ready         bool
	width, height int
	feedErr       error
}

func newTUIModel(st *view.State, commands chan string, tickMillis int, logger *slog.Logger) tuiModel {
	if tickMillis <= 0 {
		tickMillis = 100
	}
	return tuiModel{
		st:       st,
		commands: commands,
		logger:   logger,
		tick:     time.Duration(tickMillis) * time.Millisecond,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tickCmd(m.tick)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.st.InputMode() == model.ModeNormal {
			return m.updateNormalKey(msg)
		}
		return m.updateEditKey(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.st.ScrollUp()
			m.syncContent()
		case tea.MouseButtonWheelDown:
			m.st.ScrollDown()
			m.syncContent()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - m.chromeHeight()
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.syncContent()
		return m, nil

	case tickMsg:
		m.st.RefreshLatestPrice()
		m.syncContent()
		return m, tickCmd(m.tick)

	case feedDownMsg:
		m.feedErr = msg.err
		return m, nil
	}

	return m, nil
}

func (m tuiModel) updateNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		close(m.commands)
		return m, tea.Quit
	case "p":
		m.st.SwitchPage()
	case "tab":
		m.st.SwitchTradeFilter()
	case "c":
		m.st.StartCoinFilter()
	case "t":
		m.st.StartTraderFilter()
	case "s":
		m.st.StartCoinSelection()
	case "up":
		m.st.ScrollUp()
	case "down":
		m.st.ScrollDown()
	}
	m.syncContent()
	return m, nil
}

func (m tuiModel) updateEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		close(m.commands)
		return m, tea.Quit
	case tea.KeyEnter:
		if symbol, ok := m.st.Confirm(); ok {
			if !feed.TryTrack(m.commands, symbol) {
				m.logger.Warn("tracking request dropped, command channel full", "symbol", symbol)
			}
		}
	case tea.KeyEsc:
		m.st.Cancel()
	case tea.KeyBackspace:
		m.st.DeleteInput()
	case tea.KeySpace:
		m.st.AppendInput(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.st.AppendInput(r)
		}
	}
	m.syncContent()
	return m, nil
}

// chromeHeight is the number of rows used outside the scrollable viewport.
func (m tuiModel) chromeHeight() int {
	if m.st.Page() == model.PageTrades {
		return 5 // header, filter row, trade-type tabs, blank, footer
	}
	return 4 // header, tracked-coin row, blank, footer
}

// syncContent re-renders the viewport body and aligns it with the view
// state's scroll offset.
func (m *tuiModel) syncContent() {
	if !m.ready {
		return
	}
	var body string
	var itemLines int
	if m.st.Page() == model.PageTrades {
		body = m.renderTrades()
		itemLines = tradeItemLines
	} else {
		body = m.renderPriceTracker()
		itemLines = priceItemLines
	}
	m.viewport.SetContent(body)
	m.viewport.SetYOffset(m.st.ScrollOffset() * itemLines)
}

func (m tuiModel) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.st.Page() == model.PageTrades {
		b.WriteString(m.renderFilterRow())
		b.WriteString("\n")
		b.WriteString(m.renderTradeTabs())
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderTrackedCoinRow())
		b.WriteString("\n\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m tuiModel) renderHeader() string {
	var tabs []string
	for _, p := range []model.Page{model.PageTrades, model.PagePriceTracker} {
		if p == m.st.Page() {
			tabs = append(tabs, tabActiveStyle.Render("["+p.String()+"]"))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(" "+p.String()+" "))
		}
	}
	title := " rugwatch  " + strings.Join(tabs, " ")
	pad := m.width - lipgloss.Width(title)
	if pad < 0 {
		pad = 0
	}
	return headerBarStyle.Render(title + strings.Repeat(" ", pad))
}

func (m tuiModel) renderFilterRow() string {
	coin := m.st.CoinFilter()
	trader := m.st.TraderFilter()
	coinLabel := dimStyle.Render("coin (c): ")
	traderLabel := dimStyle.Render("trader (t): ")

	switch m.st.InputMode() {
	case model.ModeCoinFilter:
		coin = editingStyle.Render(m.st.InputBuffer() + "▏")
	case model.ModeTraderFilter:
		trader = editingStyle.Render(m.st.InputBuffer() + "▏")
	}
	if coin == "" {
		coin = dimStyle.Render("-")
	}
	if trader == "" {
		trader = dimStyle.Render("-")
	}
	return fmt.Sprintf(" %s%s    %s%s", coinLabel, coin, traderLabel, trader)
}

func (m tuiModel) renderTradeTabs() string {
	var tabs []string
	for _, f := range []model.TradeFilter{model.FilterAll, model.FilterLarge} {
		if f == m.st.TradeFilter() {
			tabs = append(tabs, tabActiveStyle.Render("["+f.String()+"]"))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(" "+f.String()+" "))
		}
	}
	count := fmt.Sprintf("  (%d shown / %d buffered)",
		len(m.st.FilteredTrades()), m.st.TradeCount())
	return " " + strings.Join(tabs, " ") + dimStyle.Render(count)
}

func (m tuiModel) renderTrackedCoinRow() string {
	label := dimStyle.Render("tracked coin (s): ")
	if m.st.InputMode() == model.ModeCoinSelection {
		return " " + label + editingStyle.Render(m.st.InputBuffer()+"▏")
	}
	if m.st.TrackedCoin() == "" {
		return " " + label + dimStyle.Render("none - press s to select")
	}
	return " " + label + symbolStyle.Render(m.st.TrackedCoin())
}

func (m tuiModel) renderTrades() string {
	trades := m.st.FilteredTrades()
	if len(trades) == 0 {
		return dimStyle.Render(" waiting for trades...")
	}

	var b strings.Builder
	for _, t := range trades {
		dir := buyStyle
		if t.Data.TradeType == "SELL" {
			dir = sellStyle
		}
		large := ""
		if t.MsgType == model.ChannelLiveTrade {
			large = largeStyle.Render(" [LARGE]")
		}
		b.WriteString(fmt.Sprintf(" %s%s  %s  %s\n",
			dir.Render(t.Data.TradeType), large,
			usernameStyle.Render(t.Data.Username),
			clockStyle.Render(dashboard.FormatClock(t.ReceivedAt))))
		b.WriteString(fmt.Sprintf("   %s %s\n",
			symbolStyle.Render(t.Data.CoinSymbol),
			dimStyle.Render("("+t.Data.CoinName+")")))
		b.WriteString(fmt.Sprintf("   amount %s   value $%s   price $%s\n\n",
			dashboard.FormatAmount(t.Data.Amount),
			dashboard.FormatUSD(t.Data.TotalValue),
			dashboard.FormatPrice(t.Data.Price)))
	}
	return b.String()
}

func (m tuiModel) renderPriceTracker() string {
	if m.st.TrackedCoin() == "" {
		return dimStyle.Render(" press 's' to select a coin to track")
	}

	var b strings.Builder
	if latest := m.st.LatestPrice(); latest != nil {
		change := gainStyle
		if latest.Change24h < 0 {
			change = lossStyle
		}
		b.WriteString(fmt.Sprintf(" %s  $%s  %s\n",
			symbolStyle.Render(latest.CoinSymbol),
			dashboard.FormatPrice(latest.CurrentPrice),
			change.Render(dashboard.FormatChange(latest.Change24h))))
		b.WriteString(fmt.Sprintf("   mcap $%s   vol24h $%s   pool %s / $%s\n",
			dashboard.FormatUSD(latest.MarketCap),
			dashboard.FormatUSD(latest.Volume24h),
			dashboard.FormatAmount(latest.PoolCoinAmount),
			dashboard.FormatUSD(latest.PoolBaseCurrencyAmount)))
		b.WriteString(fmt.Sprintf("   updated %s\n\n",
			clockStyle.Render(dashboard.FormatClock(latest.ReceivedAt))))
	} else {
		b.WriteString(dimStyle.Render(" waiting for price data...") + "\n\n")
	}

	updates := m.st.TrackedPriceUpdates()
	b.WriteString(dimStyle.Render(fmt.Sprintf(" history (%d)", len(updates))) + "\n")
	for _, u := range updates {
		change := gainStyle
		if u.Change24h < 0 {
			change = lossStyle
		}
		b.WriteString(fmt.Sprintf(" $%s  %s  %s\n",
			dashboard.FormatPrice(u.CurrentPrice),
			change.Render(dashboard.FormatChange(u.Change24h)),
			clockStyle.Render(dashboard.FormatClock(u.ReceivedAt))))
		b.WriteString(fmt.Sprintf("   mcap $%s   vol $%s\n\n",
			dashboard.FormatUSD(u.MarketCap),
			dashboard.FormatUSD(u.Volume24h)))
	}
	return b.String()
}

func (m tuiModel) renderFooter() string {
	var help string
	switch m.st.InputMode() {
	case model.ModeNormal:
		if m.st.Page() == model.PageTrades {
			help = " p: pages | tab: trade type | c: coin filter | t: trader filter | up/down: scroll | q: quit"
		} else {
			help = " p: pages | s: select coin | up/down: scroll | q: quit"
		}
	case model.ModeCoinSelection:
		help = " enter: track coin | esc: cancel | backspace: delete"
	default:
		help = " enter: confirm | esc: cancel | backspace: delete"
	}

	bar := footerBarStyle
	if m.feedErr != nil {
		help = " FEED DOWN (showing buffered data)" + help
		bar = feedDownStyle
	}
	pad := m.width - lipgloss.Width(help)
	if pad < 0 {
		pad = 0
	}
	return bar.Render(help + strings.Repeat(" ", pad))
}
