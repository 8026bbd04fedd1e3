package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Business errors wrap exactly one of them so the
// HTTP layer can map them with errors.Is.
var (
	ErrValidacao  = errors.New("validação")
	ErrConflito   = errors.New("conflito")
	ErrReferencia = errors.New("referência inexistente")
)

type erroNegocio struct {
	kind error
	msg  string
}

func (e *erroNegocio) Error() string { return e.msg }
func (e *erroNegocio) Unwrap() error { return e.kind }

func validacao(format string, args ...any) error {
	return &erroNegocio{kind: ErrValidacao, msg: fmt.Sprintf(format, args...)}
}

func conflito(format string, args ...any) error {
	return &erroNegocio{kind: ErrConflito, msg: fmt.Sprintf(format, args...)}
}

func referencia(format string, args ...any) error {
	return &erroNegocio{kind: ErrReferencia, msg: fmt.Sprintf(format, args...)}
}
