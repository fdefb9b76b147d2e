package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
)

// htmlSeeds cover every construct the validators look at, plus a few
// malformed shapes.
var htmlSeeds = []string{
	``,
	`<img src="a.png">`,
	`<img src="a.png" alt="image of a cat">`,
	`<a href="/"></a><a href="/"><img alt="home"></a>`,
	`<div role="button" tabindex="3">x</div><span onclick="go()">y</span>`,
	`<input type="text" id="q"><label for="q">Query</label><input type="checkbox">`,
	`<html><head><meta name="viewport" content="user-scalable=no, maximum-scale=1"></head></html>`,
	`<html lang="en"><head><title></title></head>`,
	`<iframe src="x"></iframe><frame src="y">`,
	`<style>p { color: #777; background-color: #fff; font-size: 12pt; }</style>`,
	`<style>h1 { color: #fff; background: #ffe; font-weight: bold; font-size: 20px }`,
	`<button>  <span></span></button><h2></h2><video src="v.mp4">`,
	`<svg><path d=""/></svg><select><option>1</option></select>`,
	`<img src="é🙂" alt="` + "é́" + `">`,
	`<<img<img src=<img alt=">`,
	`<style>`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range htmlSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.html файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".html" && ext != ".htm" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
