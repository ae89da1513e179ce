// Package main 启动应用程序
package main

import "github.com/yeisme/muzicc/pkg/cmd"

//	@title			Muzicc API
//	@version		1.0
//	@description	Muzicc 是一个歌曲分享服务，提供内容寻址上传去重、预签名直传和歌曲档案管理。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
