package query

import "stocktalk-service/internal/application/common"

type UserQueryResult struct {
	Result *common.UserResult `json:"result"`
}
