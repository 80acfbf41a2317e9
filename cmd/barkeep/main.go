// barkeep 是推荐引擎的命令行演示：读取 JSON 目录、历史与酒柜文件，输出各模式的推荐。
//
//	barkeep recommend --catalog drinks.json --inventory cabinet.json --history history.json --mode cabinet
//	barkeep context --at 2024-05-03T19:00:00Z
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
