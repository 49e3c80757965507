package app

import (
	"log"

	"predix/adapters/expression/columnar"
	"predix/adapters/expression/plaintext"
	"predix/domain/core"
	"predix/internal/config"
	"predix/internal/errors"
	"predix/ports"
)

// SelectExpression chooses the expression backend from configuration.
// Exactly one backend is produced, in priority order: columnar folder,
// memory-efficient text folder, text folder, text file, columnar file.
// Construction is cheap; no file is touched until the backend is opened.
func SelectExpression(cfg *config.Config) (ports.Expression, error) {
	e := cfg.Expression
	switch {
	case e.ColumnarFolder != "":
		log.Printf("[Context] Preparing expression from columnar files in %s", e.ColumnarFolder)
		return columnar.NewManager(e.ColumnarFolder, e.Pattern), nil
	case e.MemoryEfficient && e.Folder != "":
		log.Printf("[Context] Preparing expression from text files in %s (memory efficient)", e.Folder)
		return plaintext.NewStreamingManager(e.Folder, e.Pattern), nil
	case e.Folder != "":
		log.Printf("[Context] Preparing expression from text files in %s", e.Folder)
		return plaintext.NewManager(e.Folder, e.Pattern), nil
	case e.File != "":
		log.Printf("[Context] Preparing expression from text file %s", e.File)
		return plaintext.NewExpression(e.File), nil
	case e.ColumnarFile != "":
		log.Printf("[Context] Preparing expression from columnar file %s", e.ColumnarFile)
		return columnar.NewExpression(e.ColumnarFile), nil
	default:
		return nil, errors.WithCode(errors.CodeConfigInvalid, core.ErrNoExpressionSource)
	}
}
