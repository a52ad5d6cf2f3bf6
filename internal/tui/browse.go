// Package tui 提供注册表的交互式浏览界面
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"datachain/internal/ui"
	"datachain/pkg/registry"
)

// entryItem 列表中的一个注册项
type entryItem struct {
	view ui.EntryView
}

func (i entryItem) Title() string { return i.view.Name }

func (i entryItem) Description() string {
	parts := []string{i.view.Type}
	if len(i.view.Tags) > 0 {
		parts = append(parts, "["+strings.Join(i.view.Tags, ", ")+"]")
	}
	if i.view.Description != "" {
		parts = append(parts, i.view.Description)
	}
	return strings.Join(parts, " · ")
}

func (i entryItem) FilterValue() string { return i.view.Name }

// BrowseModel 注册表浏览模型
//
// 列表视图按注册顺序展示所有类型，过滤使用注册表自身的搜索；
// 回车进入详情视图，Esc 返回。
type BrowseModel struct {
	// 组件
	list     list.Model
	viewport viewport.Model

	// 状态
	detail   bool
	ready    bool
	quitting bool
	width    int
	height   int
	status   string

	// 数据
	search   func(query string) []string
	index    map[string]int
	renderer *glamour.TermRenderer

	// 样式
	titleStyle  lipgloss.Style
	helpStyle   lipgloss.Style
	statusStyle lipgloss.Style
}

// NewBrowseModel 创建浏览模型，fields 为过滤时搜索的字段（nil 表示默认字段）
func NewBrowseModel[T any](reg registry.Registry[T], renderer *glamour.TermRenderer, fields []string) *BrowseModel {
	names := reg.ListAll()
	items := make([]list.Item, 0, len(names))
	index := make(map[string]int, len(names))
	for _, name := range names {
		entry, ok := reg.GetInfo(name)
		if !ok {
			continue
		}
		index[name] = len(items)
		items = append(items, entryItem{view: ui.NewEntryView(entry)})
	}

	m := &BrowseModel{
		search: func(query string) []string {
			return reg.Search(query, fields)
		},
		index:    index,
		renderer: renderer,
		viewport: viewport.New(80, 20),

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF00FF")).
			Bold(true).
			MarginLeft(1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginLeft(1),
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f87")).
			MarginLeft(1),
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = fmt.Sprintf("DataChain · %s (%d)", reg.Name(), len(items))
	l.Filter = m.filter
	m.list = l

	return m
}

// filter 用注册表搜索代替模糊匹配，结果保持注册顺序
func (m *BrowseModel) filter(term string, _ []string) []list.Rank {
	names := m.search(term)
	ranks := make([]list.Rank, 0, len(names))
	for _, name := range names {
		if i, ok := m.index[name]; ok {
			ranks = append(ranks, list.Rank{Index: i})
		}
	}
	return ranks
}

// Init 初始化模型
func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

// Update 处理消息更新
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 3
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}

		if m.detail {
			switch msg.String() {
			case "esc", "q", "backspace":
				m.detail = false
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if msg.Type == tea.KeyEnter && m.list.FilterState() != list.Filtering {
			m.openDetail()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// openDetail 渲染当前选中项的详情
func (m *BrowseModel) openDetail() {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return
	}

	var (
		content string
		err     error
	)
	if m.renderer != nil {
		content, err = ui.RenderEntry(m.renderer, item.view)
	} else {
		content, err = ui.EntryMarkdown(item.view)
	}
	if err != nil {
		m.status = fmt.Sprintf("渲染失败: %v", err)
		return
	}

	m.status = ""
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	m.detail = true
}

// View 渲染界面
func (m *BrowseModel) View() string {
	if m.quitting {
		return "再见!\n"
	}

	if m.detail {
		return strings.Join([]string{
			m.titleStyle.Render(m.selectedName()),
			m.viewport.View(),
			m.helpStyle.Render("Esc/q: 返回 | ↑/↓: 滚动 | Ctrl+C: 退出"),
		}, "\n")
	}

	view := m.list.View()
	if m.status != "" {
		view += "\n" + m.statusStyle.Render(m.status)
	}
	return view
}

func (m *BrowseModel) selectedName() string {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		return item.view.Name
	}
	return ""
}

// Run 以全屏模式运行浏览界面
func Run(model *BrowseModel) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
