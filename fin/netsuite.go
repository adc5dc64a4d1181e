package fin

import (
	"bytes"
	"fmt"
	"time"

	"github.com/silinternational/claims-settlement-api/domain"
)

const (
	netSuiteHeader                 = `"SystemSubsidiary","GroupID","TransactionID","TransactionDate","Description","DebitAccount","CreditAccount","Amount","Currency","Reference"` + "\n"
	netSuiteTransactionRowTemplate = `%s,,%d,%s,"%s","%s","%s",%s,%s,"%s"` + "\n"
)

// NetSuite renders a batch as a NetSuite journal import. Each line is paired with the credit account of the
// balancing line that closes its block.
type NetSuite struct {
	Period             int
	Year               int
	JournalDescription string
	TransactionBlocks  TransactionBlocks

	rowID      int64
	blockNames []string
}

func newNetSuiteReport(batchDesc string, date time.Time) *NetSuite {
	period := getFiscalPeriod(int(date.Month()))
	year := getFiscalYear(date)

	return &NetSuite{
		Period:             period,
		Year:               year,
		JournalDescription: batchDesc,
		TransactionBlocks:  make(TransactionBlocks),
		rowID:              int64((year*100)+period) * 1000000,
		blockNames:         []string{},
	}
}

func (n *NetSuite) AppendToBatch(block string, t Transaction) {
	if t.Amount == 0 {
		return
	}

	if _, ok := n.TransactionBlocks[block]; !ok {
		n.blockNames = append(n.blockNames, block)
	}

	n.TransactionBlocks[block] = append(n.TransactionBlocks[block], t)
}

func (n *NetSuite) RenderBatch() ([]byte, string) {
	var buf bytes.Buffer
	buf.WriteString(netSuiteHeader)

	for _, name := range n.blockNames {
		block := n.TransactionBlocks[name]
		last := len(block) - 1
		if last < 1 {
			continue
		}

		// the balancing line only names the credit account
		creditAccount := block[last].Account
		for _, t := range block[:last] {
			buf.Write(n.transactionRow(t, creditAccount))
		}
	}

	return buf.Bytes(), domain.ContentCSV
}

func (n *NetSuite) transactionRow(t Transaction, creditAccount string) []byte {
	n.rowID++

	str := fmt.Sprintf(
		netSuiteTransactionRowTemplate,
		domain.Env.NetSuiteSubsidiary,
		n.rowID,
		t.Date.Format("01/02/2006"),
		t.Description,
		t.Account,
		creditAccount,
		t.Amount.String(),
		domain.Env.ReferenceCurrency,
		t.Reference,
	)
	return []byte(str)
}
