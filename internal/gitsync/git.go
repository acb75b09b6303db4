package gitsync

import (
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// Manager wraps batches of vault mutations in a pull / commit / push
// cycle against the git repository at the vault root. Sync failures are
// logged, never returned: the batch's own result always wins, and a
// temporarily unreachable remote must not fail task processing.
type Manager struct {
	RepoPath string
	Branch   string
	Enabled  bool
}

func New(repoPath, branch string, enabled bool) *Manager {
	return &Manager{RepoPath: repoPath, Branch: branch, Enabled: enabled}
}

// WithBatchSync pulls the latest remote state, runs op, then stages,
// commits and pushes whatever op changed. With sync disabled it just
// runs op.
func (m *Manager) WithBatchSync(op func() error) error {
	if !m.Enabled {
		return op()
	}

	if out, err := m.git("pull", "--ff-only"); err != nil {
		log.Printf("⚠️ Failed to pull from remote: %v (%s)", err, strings.TrimSpace(string(out)))
	}

	opErr := op()

	if err := m.commitAndPush(); err != nil {
		log.Printf("⚠️ Failed to push batch to remote: %v", err)
	}

	return opErr
}

func (m *Manager) commitAndPush() error {
	if out, err := m.git("add", "-A"); err != nil {
		return fmt.Errorf("git add failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	status, err := m.git("status", "--porcelain")
	if err != nil {
		return fmt.Errorf("git status failed: %w", err)
	}
	if len(strings.TrimSpace(string(status))) == 0 {
		log.Println("No changes to commit")
		return nil
	}

	message := fmt.Sprintf("Automated task processing (batch %s)", uuid.NewString()[:8])
	if out, err := m.git("commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	log.Printf("Committed batch: %s", message)

	pushArgs := []string{"push"}
	if m.Branch != "" {
		pushArgs = append(pushArgs, "origin", m.Branch)
	}
	if out, err := m.git(pushArgs...); err != nil {
		return fmt.Errorf("git push failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	log.Println("✅ Pushed batch to remote")
	return nil
}

func (m *Manager) git(args ...string) ([]byte, error) {
	c := exec.Command("git", args...)
	c.Dir = m.RepoPath
	return c.CombinedOutput()
}
