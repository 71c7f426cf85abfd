package repoargs

type RepositoryName string

const (
	WalletRepoName      RepositoryName = "wallet"
	TransactionRepoName RepositoryName = "transaction"
	SellerRepoName      RepositoryName = "seller"
	OrderRepoName       RepositoryName = "order"
	WithdrawalRepoName  RepositoryName = "withdrawal"
)

// BatchExecQueryRow callback of a batched exec, called once per queued statement.
type BatchExecQueryRow func(i int, err error)
