package handler

var MapUsecaseErrorForTest = mapUsecaseError
