package levels

import (
	"fmt"
	"sort"
	"strings"
)

// String renders a multi-line debug dump. It is not an export format.
func (l *Level) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Level %dx%d\n", l.width, l.height)
	fmt.Fprintf(&b, "include: %s\n", strings.Join(l.Include, ", "))
	fmt.Fprintf(&b, "sceneName: %s\n", l.SceneName)
	fmt.Fprintf(&b, "cameraSettings: postProcessing=%t zoom=%g followTarget=%s\n",
		l.CameraSettings.PostProcessing, l.CameraSettings.Zoom, l.CameraSettings.FollowTarget)
	writeSection(&b, "File Properties", l.FileProperties)

	b.WriteString("Grid:\n")
	for y := 0; y < l.height; y++ {
		row := l.cells[y*l.width : (y+1)*l.width]
		for x, c := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			if c == "" {
				c = ".."
			}
			b.WriteString(c)
		}
		b.WriteByte('\n')
	}

	if len(l.placements) > 0 {
		b.WriteString("Objects:\n")
		for _, p := range l.Placements() {
			fmt.Fprintf(&b, "  %d: %s\n", p.Ref, p.Object)
		}
	}

	writeSection(&b, "Object Definitions", l.ObjectDefinitions)
	writeSection(&b, "Sounds", l.Sounds)
	writeSection(&b, "Global Data", l.GlobalData)

	return b.String()
}

func writeSection(b *strings.Builder, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, m[k])
	}
}
