package stage

import (
	"fmt"

	"go.uber.org/zap"
)

// debugLogger is non-nil while some scene runs in debug mode. The scene
// graph is single-threaded, so a package-level switch is enough.
var debugLogger *zap.Logger

func setDebugLogger(l *zap.Logger) {
	debugLogger = l
}

func debugEnabled() bool {
	return debugLogger != nil
}

// debugStatsInterval is how many frames pass between stats lines.
const debugStatsInterval = 60

func (s *Scene) debugFrame(stats drawStats) {
	if s.frames%debugStatsInterval != 0 {
		return
	}
	s.logger.Debug("frame stats",
		zap.Int("frame", s.frames),
		zap.Int("nodes", stats.visited),
		zap.Int("draws", stats.draws),
		zap.Int("tweens", len(s.tweens)),
		zap.Duration("elapsed", stats.elapsed))
}

// debugCheckDisposed panics when a disposed node is used in a tree operation.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("stage debug: %s on disposed node %q", op, n.Name))
	}
}

const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold",
			zap.String("node", n.Name),
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth))
	}
}

const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold",
			zap.String("node", n.Name),
			zap.Int("children", len(n.children)),
			zap.Int("threshold", debugMaxChildCount))
	}
}
