package repository

import "fmt"

// LedgerError encapsula uma falha de I/O do ledger de vendas. O erro
// subjacente é propagado sem modificação para o chamador; nenhuma
// nova tentativa é feita nesta camada.
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger: falha em %s: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}
