package hasher

// legacyFrame stores the raw hash in an auxiliary document so hosts that do
// not record hash changes in history still get back/forward entries.
type legacyFrame struct {
	frame Frame
}

func newLegacyFrame(f Frame) *legacyFrame {
	return &legacyFrame{frame: f}
}

func (f *legacyFrame) hash() (string, bool) {
	return f.frame.FrameHash()
}

// update rewrites the document unless it already holds hash.
func (f *legacyFrame) update(title, hash string) bool {
	if cur, ok := f.frame.FrameHash(); ok && cur == hash {
		return false
	}
	f.frame.Write(frameDocument(title, hash))
	return true
}
