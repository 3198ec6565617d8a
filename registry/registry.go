// Package registry 实现乘客登记表（core.PassengerRegistry），即匹配引擎的候选池。
//
// 实现：
//   - KVRegistry：基于 core.KeyValueStore（内存 / Redis）
//   - MySQLRegistry：基于 database/sql + go-sql-driver/mysql
//   - MockPool：确定性的模拟乘客，仅在显式配置 pool.type: mock 时使用
package registry

import (
	"sort"

	"github.com/rushteam/seatmatch/core"
)

func conflictPNR(pnr string) error {
	return core.NewDomainError(core.ModuleRegistry, core.ErrorCodeConflict,
		"pnr already registered: "+pnr)
}

func notFound(userID int64) error {
	return core.NewDomainError(core.ModuleRegistry, core.ErrorCodeNotFound,
		"passenger not found: "+itoa(userID))
}

func sortByID(ps []core.Passenger) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].UserID < ps[j].UserID })
}
