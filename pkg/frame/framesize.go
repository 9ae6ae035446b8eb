package frame

// Size returns the number of bytes a frame of f occupies, or 0 when f is
// unknown.
func Size(f Format, width, height int) int {
	layout, ok := layouts[f]
	if !ok {
		return 0
	}
	return width * height * int(layout.Components) * bytesPerSample(layout)
}
