// Package fuzztests houses Go fuzz harnesses for the accessibility engine
// and the rule catalogue loader. Its goal is to smoke test robustness and
// guard against panics, hangs or out-of-range spans on arbitrary inputs.
//
// Назначение: прогонять произвольные документы через engine.Evaluate и
// произвольные каталоги через rules.Parse.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/engine, internal/rules, internal/testkit.

package fuzztests
