package fin

import (
	"bytes"
	"fmt"

	"github.com/silinternational/claims-settlement-api/domain"
)

const (
	sageHeader1 = `"RECTYPE","BATCHID","BTCHENTRY","ORIGCOMP","SRCELEDGER","SRCETYPE","FSCSYR","FSCSPERD","SWEDIT",` +
		`"JRNLDESC","REVPERD","ERRBATCH","ERRENTRY","DETAILCNT","PROCESSCMD"` + "\n"
	sageHeader2 = `"RECTYPE","BATCHNBR","JOURNALID","TRANSNBR","DESCOMP","ROUTE","ACCTID","COMPANYID","TRANSAMT",` +
		`"SCURNDEC","TRANSDESC","TRANSREF","TRANSDATE","SRCELDGR","SRCETYPE",` + "\n"
)

const (
	sageTransactionRowTemplate = `"2","000000","00001","%010d","",0,"%s","",%s,"2","%.60s","%s",%s,"GL","JE"` + "\n"
	sageSummaryRowTemplate     = `"1","000000","00001","","GL","JE","%d","%02d",0,"%s","00",0,0,0,2` + "\n"
)

// Sage renders a batch as a Sage 300 GL journal entry import
type Sage struct {
	Period             int
	Year               int
	JournalDescription string
	Transactions       []Transaction
}

// AppendToBatch adds a line to the journal. Sage has a single journal, so blocks only affect ordering.
func (s *Sage) AppendToBatch(_ string, t Transaction) {
	if t.Amount == 0 {
		return
	}
	s.Transactions = append(s.Transactions, t)
}

func (s *Sage) RenderBatch() ([]byte, string) {
	var buf bytes.Buffer
	buf.WriteString(sageHeader1)
	buf.WriteString(sageHeader2)
	fmt.Fprintf(&buf, sageSummaryRowTemplate, s.Year, s.Period, s.JournalDescription)
	for i, t := range s.Transactions {
		fmt.Fprintf(&buf, sageTransactionRowTemplate,
			20*(i+1),
			t.Account,
			t.Amount.String(),
			t.Description, // truncated to the Sage limit of 60 characters
			t.Reference,
			t.Date.Format("20060102"),
		)
	}

	return buf.Bytes(), domain.ContentCSV
}
