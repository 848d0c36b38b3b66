package repo

var ClassifyWriteError = classifyWriteError
