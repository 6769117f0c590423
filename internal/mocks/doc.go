// Package mocks provides shared test doubles for the store and event
// interfaces.
//
// TestifyMockTaskStore is a testify/mock implementation for tests that need
// to script failures of individual store calls. MockEventEmitter uses
// function fields and records every call.
//
//	st := &mocks.TestifyMockTaskStore{}
//	st.On("RunInTx", mock.Anything, mock.Anything).Return(store.ErrTransactionFailed)
package mocks
