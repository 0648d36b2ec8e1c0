package service_test

import (
	"context"
	"testing"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

func TestAddEmployee_BalanceStartsAtZero(t *testing.T) {
	remote := newMockStore(testTenant())
	sess := readySession(t, remote)

	created, ok := sess.AddEmployee(context.Background(), domain.Employee{
		Name: "Carlos", SalaryType: domain.SalaryTypeMixed, Balance: 999,
	})
	if !ok {
		t.Fatal("expected create to succeed")
	}
	if created.Balance != 0 {
		t.Errorf("caller-supplied balance must be discarded, got %.2f", created.Balance)
	}
}

func TestEmployeeTransactions_BalanceTracksLedger(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.employees = []domain.Employee{{ID: "emp1", TenantID: "tenant-1", Name: "Carlos"}}
	sess := readySession(t, remote)

	tx, ok := sess.AddEmployeeTransaction(context.Background(), domain.EmployeeTransaction{
		EmployeeID: "emp1", Type: domain.EmployeeTxSalary, Amount: 1500,
	})
	if !ok {
		t.Fatal("expected transaction to succeed")
	}
	emp, _ := sess.Store().Employee("emp1")
	if emp.Balance != 1500 {
		t.Errorf("expected balance 1500, got %.2f", emp.Balance)
	}

	// Editing an entry adjusts the balance by the amount difference.
	edited := *tx
	edited.Amount = 1200
	if !sess.UpdateEmployeeTransaction(context.Background(), edited) {
		t.Fatal("expected edit to succeed")
	}
	emp, _ = sess.Store().Employee("emp1")
	if emp.Balance != 1200 {
		t.Errorf("expected balance 1200 after edit, got %.2f", emp.Balance)
	}

	// Deleting an entry reverses it.
	if !sess.DeleteEmployeeTransaction(context.Background(), tx.ID) {
		t.Fatal("expected delete to succeed")
	}
	emp, _ = sess.Store().Employee("emp1")
	if emp.Balance != 0 {
		t.Errorf("expected balance 0 after delete, got %.2f", emp.Balance)
	}
}

func TestAddEmployeeTransaction_PersistFailureRollsBackBalance(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.employees = []domain.Employee{{ID: "emp1", TenantID: "tenant-1", Name: "Carlos"}}
	remote.fail["CreateEmployeeTransaction"] = true
	sess := readySession(t, remote)

	if _, ok := sess.AddEmployeeTransaction(context.Background(), domain.EmployeeTransaction{
		EmployeeID: "emp1", Type: domain.EmployeeTxAdvance, Amount: -200,
	}); ok {
		t.Fatal("expected transaction to fail")
	}

	emp, _ := sess.Store().Employee("emp1")
	if emp.Balance != 0 {
		t.Errorf("balance moved despite rollback: %.2f", emp.Balance)
	}
	if n := len(sess.Store().EmployeeTransactions()); n != 0 {
		t.Errorf("expected empty ledger, got %d entries", n)
	}
}

func TestAddFinanceEntry_SequentialIDsAndTypeCheck(t *testing.T) {
	remote := newMockStore(testTenant())
	sess := readySession(t, remote)

	first, ok := sess.AddFinanceEntry(context.Background(), domain.FinancialTransaction{
		Type: "income", Amount: 500, Category: "serviços",
	})
	if !ok {
		t.Fatal("expected entry to succeed")
	}
	second, ok := sess.AddFinanceEntry(context.Background(), domain.FinancialTransaction{
		Type: "expense", Amount: 120, Category: "materiais",
	})
	if !ok {
		t.Fatal("expected entry to succeed")
	}
	if second.ID != first.ID+1 {
		t.Errorf("expected sequential ids, got %d then %d", first.ID, second.ID)
	}

	if _, ok := sess.AddFinanceEntry(context.Background(), domain.FinancialTransaction{
		Type: "transfer", Amount: 10,
	}); ok {
		t.Error("unknown entry type must be refused")
	}
}
