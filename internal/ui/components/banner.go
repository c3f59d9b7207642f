package components

import (
	"charm.land/lipgloss/v2"

	"github.com/morokoshi/quizlet/internal/ui/theme"
)

const bannerArt = ` ██████╗ ██╗   ██╗██╗███████╗██╗     ███████╗████████╗
██╔═══██╗██║   ██║██║╚══███╔╝██║     ██╔════╝╚══██╔══╝
██║   ██║██║   ██║██║  ███╔╝ ██║     █████╗     ██║
██║▄▄ ██║██║   ██║██║ ███╔╝  ██║     ██╔══╝     ██║
╚██████╔╝╚██████╔╝██║███████╗███████╗███████╗   ██║
 ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "Q · U · I · Z · L · E · T"

// BannerWidth is the column count of the full banner art.
const BannerWidth = 55

// Banner returns the QUIZLET block letters, or the compact spelling when
// compact is set.
func Banner(compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if compact {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
