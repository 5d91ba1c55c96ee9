package output

import "reactapp-uitests/internal/domain/entity"

type ArtifactPort interface {
	// SaveScreenshot stores shot under a name derived from label and returns its path.
	SaveScreenshot(label string, shot *entity.Screenshot) (string, error)
}
