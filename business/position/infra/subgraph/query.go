package subgraph

// poolsQuery selects the TOREX pools and the account's membership in each.
const poolsQuery = `query getFlowEvents($poolAdmin: String!, $account: String!) {
  pools(where: {admin_contains: $poolAdmin}) {
    id
    poolMembers(where: {account_contains: $account}) {
      id
      units
      isConnected
      totalAmountClaimed
      totalAmountReceivedUntilUpdatedAt
      poolTotalAmountDistributedUntilUpdatedAt
      updatedAtTimestamp
      updatedAtBlockNumber
      syncedPerUnitSettledValue
      syncedPerUnitFlowRate
      account {
        id
        outflows {
          deposit
          currentFlowRate
          createdAtTimestamp
        }
        poolMemberships {
          totalAmountClaimed
          pool {
            perUnitSettledValue
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type poolsResponse struct {
	Data struct {
		Pools []poolDTO `json:"pools"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type poolDTO struct {
	ID          string      `json:"id"`
	PoolMembers []memberDTO `json:"poolMembers"`
}

type memberDTO struct {
	ID                                       string     `json:"id"`
	Units                                    string     `json:"units"`
	IsConnected                              bool       `json:"isConnected"`
	TotalAmountClaimed                       string     `json:"totalAmountClaimed"`
	TotalAmountReceivedUntilUpdatedAt        string     `json:"totalAmountReceivedUntilUpdatedAt"`
	PoolTotalAmountDistributedUntilUpdatedAt string     `json:"poolTotalAmountDistributedUntilUpdatedAt"`
	UpdatedAtTimestamp                       string     `json:"updatedAtTimestamp"`
	UpdatedAtBlockNumber                     string     `json:"updatedAtBlockNumber"`
	SyncedPerUnitSettledValue                string     `json:"syncedPerUnitSettledValue"`
	SyncedPerUnitFlowRate                    string     `json:"syncedPerUnitFlowRate"`
	Account                                  accountDTO `json:"account"`
}

type accountDTO struct {
	ID       string `json:"id"`
	Outflows []struct {
		Deposit            string `json:"deposit"`
		CurrentFlowRate    string `json:"currentFlowRate"`
		CreatedAtTimestamp string `json:"createdAtTimestamp"`
	} `json:"outflows"`
	PoolMemberships []struct {
		TotalAmountClaimed string `json:"totalAmountClaimed"`
		Pool               struct {
			PerUnitSettledValue string `json:"perUnitSettledValue"`
		} `json:"pool"`
	} `json:"poolMemberships"`
}
