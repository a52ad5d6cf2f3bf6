package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = ` ____        _         ____ _           _
|  _ \  __ _| |_ __ _ / ___| |__   __ _(_)_ __
| | | |/ _' | __/ _' | |   | '_ \ / _' | | '_ \
| |_| | (_| | || (_| | |___| | | | (_| | | | | |
|____/ \__,_|\__\__,_|\____|_| |_|\__,_|_|_| |_|`

var (
	accent = lipgloss.Color("#FF00FF")

	bannerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 10)

	bannerTitleStyle = lipgloss.NewStyle().
				Foreground(accent).
				Bold(true)

	bannerDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

// Banner 渲染欢迎横幅，width > 0 时水平居中
func Banner(version string, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		strings.ReplaceAll(logo, "'", "`"),
		"",
		bannerTitleStyle.Render("DataChain: Multi-Modal Data Transformation Framework - CLI"),
		"",
		bannerDimStyle.Render(fmt.Sprintf("类型注册表与转换器工厂 %s", version)),
	)

	box := lipgloss.JoinVertical(lipgloss.Center,
		bannerTitleStyle.Render("Welcome to DataChain"),
		bannerBoxStyle.Render(content),
		bannerDimStyle.Render("Multi-Modal Data Transformation Framework"),
	)

	if width > lipgloss.Width(box) {
		box = lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
	}
	return box
}

// PrintBanner 输出欢迎横幅和一个空行
func PrintBanner(w io.Writer, version string, width int) {
	fmt.Fprintln(w, Banner(version, width))
	fmt.Fprintln(w)
}
