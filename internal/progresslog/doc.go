// Copyright (c) 2020 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package progresslog provides periodic logging for header processing.

## Feature Overview

- Maintains the cumulative number of headers between each logging interval
- Logs the cumulative data along with the hash and time of the most recent
  header every 10 seconds
- Immediately logs any outstanding data when forced
*/
package progresslog
