package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/carmerge/internal/core"
)

// Render draws the board and the HUD line below it.
func (r *Round) Render(dst *core.Screen) {
	r.board.Render(dst, r.ctrl.Effects())

	st := r.State()
	y := dst.Height() - hudRows
	hud := fmt.Sprintf("%s  moves %d  merges %d  cars %d  %s",
		r.variant.Title, st.Moves, st.Merges, st.Live, clock(r.elapsed))
	dst.DrawTextCentered(y, hud, core.ColorWhite)

	if st.GameOver {
		dst.DrawTextCentered(y+1, "The escort has arrived!  r: new round  q: quit", core.ColorBrightCyan)
	}
}

// clock formats a duration as m:ss.
func clock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
